package service

// Principal identifies the acting user of a request. The zero value is anonymous.
type Principal struct {
	UserID uint
}

func Anonymous() Principal {
	return Principal{}
}

func Authenticated(userID uint) Principal {
	return Principal{UserID: userID}
}

func (p Principal) IsAnonymous() bool {
	return p.UserID == 0
}
