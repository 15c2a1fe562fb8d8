package services

import "github.com/lborres/flex/core"

// API joins the account and profile services behind one provider.
type API struct {
	*AuthService
	*ProfileService
}

var _ core.APIProvider = (*API)(nil)

func NewAPI(auth *AuthService, profiles *ProfileService) *API {
	return &API{AuthService: auth, ProfileService: profiles}
}
