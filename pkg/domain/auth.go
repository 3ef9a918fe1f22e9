package domain

// Credentials is the payload posted to the credential login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember,omitempty"`
}

// GoogleLogin is the payload posted to the federated login endpoint.
type GoogleLogin struct {
	AccessToken string `json:"accessToken"`
}

// LoginResponse is the body returned by both login endpoints. The remote
// service owns the shape: the token and user appear either at the top level
// or inside a data envelope.
type LoginResponse struct {
	Token       string         `json:"token,omitempty"`
	AccessToken string         `json:"access_token,omitempty"`
	User        *User          `json:"user,omitempty"`
	Message     string         `json:"message,omitempty"`
	Data        *LoginResponse `json:"data,omitempty"`
}

// AuthToken returns the first non-empty token in the response.
func (r *LoginResponse) AuthToken() string {
	if r == nil {
		return ""
	}
	if r.Token != "" {
		return r.Token
	}
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Data.AuthToken()
}

// Profile returns the user embedded in the response, if any.
func (r *LoginResponse) Profile() *User {
	if r == nil {
		return nil
	}
	if r.User != nil {
		return r.User
	}
	return r.Data.Profile()
}
