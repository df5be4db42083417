package domain

import "strings"

// Profession selects which dashboard a user is routed to after login.
type Profession string

const (
	ProfessionStudent      Profession = "student"
	ProfessionProfessional Profession = "professional"
	ProfessionHomemaker    Profession = "homemaker"
	ProfessionSenior       Profession = "senior"
)

// ProfessionProfile describes the dashboard layout for one profession.
type ProfessionProfile struct {
	ID             Profession `json:"id"`
	Name           string     `json:"name"`
	DashboardTitle string     `json:"dashboard_title"`
	Greeting       string     `json:"greeting"`
	Sections       []string   `json:"sections"`
}

var professionCatalog = map[Profession]ProfessionProfile{
	ProfessionStudent: {
		ID:             ProfessionStudent,
		Name:           "Student",
		DashboardTitle: "Student Dashboard",
		Greeting:       "You have:",
		Sections:       []string{"Reminders & Exams", "Today's Schedule"},
	},
	ProfessionProfessional: {
		ID:             ProfessionProfessional,
		Name:           "Professional",
		DashboardTitle: "Professional Dashboard",
		Greeting:       "Today you have:",
		Sections:       []string{"Today's Meetings", "Active Projects", "Performance"},
	},
	ProfessionHomemaker: {
		ID:             ProfessionHomemaker,
		Name:           "Home maker",
		DashboardTitle: "Home Harmony",
		Greeting:       "Let's make today smooth and stress-free.",
		Sections:       []string{"Tasks Today", "Low Grocery Items", "Upcoming Bills", "Family Events", "Today's Timeline"},
	},
	ProfessionSenior: {
		ID:             ProfessionSenior,
		Name:           "Senior citizen",
		DashboardTitle: "Senior Dashboard",
		Greeting:       "Good Morning!",
		Sections:       []string{"Today's Medications", "Appointments", "Bills & Payments", "Daily Routine"},
	},
}

// Professions lists the selectable professions in display order.
func Professions() []Profession {
	return []Profession{ProfessionStudent, ProfessionProfessional, ProfessionHomemaker, ProfessionSenior}
}

// ParseProfession accepts an id case-insensitively.
func ParseProfession(value string) (Profession, error) {
	p := Profession(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := professionCatalog[p]; !ok {
		return "", ErrUnknownProfession
	}
	return p, nil
}

// Profile returns the dashboard layout. The sections slice is a copy.
func (p Profession) Profile() (ProfessionProfile, bool) {
	profile, ok := professionCatalog[p]
	if !ok {
		return ProfessionProfile{}, false
	}
	profile.Sections = append([]string(nil), profile.Sections...)
	return profile, true
}
