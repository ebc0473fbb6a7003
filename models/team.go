package models

type MemberRole string

const (
	MemberRolePlayer  MemberRole = "player"
	MemberRoleCaptain MemberRole = "captain"
)

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

// TeamMember is a roster entry as typed into the team form.
type TeamMember struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Role     MemberRole   `json:"role"`
	Position string       `json:"position"`
	Status   MemberStatus `json:"status"`
}

// Team is a team as returned by the BDD service.
type Team struct {
	ID           ID           `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	TournamentID string       `json:"tournament_id,omitempty"`
	CaptainID    *ID          `json:"captain_id,omitempty"`
	ContactEmail string       `json:"contact_email,omitempty"`
	ContactPhone string       `json:"contact_phone,omitempty"`
	SkillLevel   string       `json:"skill_level,omitempty"`
	Status       string       `json:"status,omitempty"`
	Members      []TeamPlayer `json:"members,omitempty"`
}

// TeamPlayer is a member entry attached to a team by user id.
type TeamPlayer struct {
	UserID   ID           `json:"user_id"`
	Role     MemberRole   `json:"role"`
	Position string       `json:"position"`
	Status   MemberStatus `json:"status"`
}

// CreateTeamPayload is the body sent to the BDD service to create a team.
type CreateTeamPayload struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	TournamentID string `json:"tournament_id"`
	CaptainID    *ID    `json:"captain_id"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	SkillLevel   string `json:"skill_level"`
	Notes        string `json:"notes"`
}
