package service

// Register creates a new user and returns its id and device token.
func (s *Service) Register() (int64, string, error) {
	return s.s.RegisterUser()
}

// UserIDByToken resolves a device token issued by Register.
func (s *Service) UserIDByToken(token string) (int64, error) {
	return s.s.GetUserIDByAuthToken(token)
}
