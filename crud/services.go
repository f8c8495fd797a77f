package crud

import "gorm.io/gorm"

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It wraps the constructor of a crud service
// so the services can be assembled with functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection provided by Services.
type Services struct {
	db     *gorm.DB
	User   *UserService
	Author *AuthorService
	Cheep  *CheepService
	Feed   *FeedService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db: db,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser(hmacKey, pepper string) ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.db, hmacKey, pepper)
		return nil
	}
}

// WithAuthor wraps the constructor of AuthorService, NewAuthorService.
func WithAuthor() ServicesConfig {
	return func(s *Services) error {
		s.Author = NewAuthorService(s.db)
		return nil
	}
}

// WithCheep wraps the constructor of CheepService, NewCheepService.
func WithCheep() ServicesConfig {
	return func(s *Services) error {
		s.Cheep = NewCheepService(s.db)
		return nil
	}
}

// WithFeed wraps the constructor of FeedService, NewFeedService. The feed
// service orchestrates the author and cheep services; if those haven't
// been configured yet they are created here.
func WithFeed() ServicesConfig {
	return func(s *Services) error {
		if s.Author == nil {
			s.Author = NewAuthorService(s.db)
		}
		if s.Cheep == nil {
			s.Cheep = NewCheepService(s.db)
		}
		s.Feed = NewFeedService(s.db, s.Author, s.Cheep)
		return nil
	}
}
