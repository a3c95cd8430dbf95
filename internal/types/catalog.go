package types

import (
	"strconv"
	"time"
)

type Author struct {
	Id         string     `json:"id"`
	FirstName  string     `json:"first_name"`
	FamilyName string     `json:"family_name"`
	Born       *time.Time `json:"date_of_birth,omitempty"`
	Died       *time.Time `json:"date_of_death,omitempty"`
}

// Name is the display name "family, first". Empty when either part is missing.
func (a *Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}

	return a.FamilyName + ", " + a.FirstName
}

// Lifespan is "<birth year> - <death year>", either side blank when the date
// is not known. The " - " separator is always present.
func (a *Author) Lifespan() string {
	span := ""
	if a.Born != nil {
		span = strconv.Itoa(a.Born.Year())
	}

	span += " - "
	if a.Died != nil {
		span += strconv.Itoa(a.Died.Year())
	}

	return span
}

type Book struct {
	Id       string   `json:"id"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	ISBN     string   `json:"isbn"`
	AuthorId string   `json:"author"`
	GenreIds []uint16 `json:"genre"`
}

type Status string

const (
	StatusAvailable   Status = "Available"
	StatusMaintenance Status = "Maintenance"
	StatusLoaned      Status = "Loaned"
	StatusReserved    Status = "Reserved"
)

type BookInstance struct {
	Id      string    `json:"id"`
	BookId  string    `json:"book"`
	Imprint string    `json:"imprint"`
	Status  Status    `json:"status"`
	DueBack time.Time `json:"due_back"`
}
