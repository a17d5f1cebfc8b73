package models

// ResolveLocations returns the account's locations as the merge and matching
// layers see them. Accounts owning no location rows yield one location
// synthesized from their UDF fallback fields so the account still carries an
// address signal.
func ResolveLocations(account Account, locations []Location) []ResolvedLocation {
	if len(locations) > 0 {
		resolved := make([]ResolvedLocation, 0, len(locations))
		for _, loc := range locations {
			resolved = append(resolved, ResolvedLocation{Location: loc, Source: LocationSourceReal})
		}
		return resolved
	}

	return []ResolvedLocation{{
		Location: Location{
			AccountID:    account.ID,
			Name:         account.Name,
			AddressLine1: account.AddressLine1,
			AddressLine2: account.AddressLine2,
			City:         account.City,
			State:        account.State,
			Zip:          account.Zip,
			Country:      account.Country,
			ContactPhone: account.Phone,
			IsPrimary:    true,
			Status:       account.Status,
		},
		Source: LocationSourceSynthesized,
	}}
}
