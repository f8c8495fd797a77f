package domain

// User is the login identity linked to an Author by email. It carries
// credentials only; all social-graph state lives on the Author row.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email" gorm:"index"`
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"index"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	Create(user *User) error
	Update(user *User) error
	ByEmail(email string) (*User, error)
	ByRemember(token string) (*User, error)
	Authenticate(email, password string) (*User, error)
	MakeRememberToken() (string, error)
}
