package domain

import "time"

const BirthDateLayout = "02-01-2006"

type User struct {
	UID       string     `json:"uid"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Gender    string     `json:"gender"`
	BirthDate *time.Time `json:"-"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

// Age returns whole years between the birth date and now, or nil when the
// birth date was never set.
func (u *User) Age(now time.Time) *int {
	if u.BirthDate == nil {
		return nil
	}
	age := YearsBetween(*u.BirthDate, now)
	return &age
}

func YearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

type UserProfile struct {
	UID       string  `json:"uid"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Gender    string  `json:"gender"`
	BirthDate *string `json:"birthDate"`
	Age       *int    `json:"age"`
}

func (u *User) Profile(now time.Time) UserProfile {
	p := UserProfile{
		UID:    u.UID,
		Name:   u.Name,
		Email:  u.Email,
		Gender: u.Gender,
		Age:    u.Age(now),
	}
	if u.BirthDate != nil {
		s := u.BirthDate.Format(BirthDateLayout)
		p.BirthDate = &s
	}
	return p
}

type UpdateUserRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=Male Female"`
	BirthDate *string `json:"birthDate" validate:"omitempty,birthdate"`
}

type AccountSummary struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}
