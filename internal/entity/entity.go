// Package entity defines the master records managed by the admin service:
// networks of vocational-education centers, their departments, professional
// families, strategic objectives, and the supporting records (meetings,
// observatory items, registration codes, users, help sections).
//
// All types are flat values with a string ID assigned by the store on
// creation. Cross-entity references (a Center naming its Network, a Network
// listing its Centers) are held by ID and validated at the service boundary,
// not enforced here.
package entity

import "time"

// Role identifies what an authenticated actor may see and edit.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleNetworkAdmin Role = "network-admin"
	RoleCenterAdmin  Role = "center-admin"
	RoleTeacher      Role = "teacher"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNetworkAdmin, RoleCenterAdmin, RoleTeacher:
		return true
	}
	return false
}

// StudyLevel classifies a vocational study.
type StudyLevel string

const (
	LevelBasic  StudyLevel = "basic"
	LevelMedium StudyLevel = "medium"
	LevelHigher StudyLevel = "higher"
)

// StudyLevels lists the accepted study levels in display order.
var StudyLevels = []string{string(LevelBasic), string(LevelMedium), string(LevelHigher)}

// GroupShift is the time slot a group meets in.
type GroupShift string

const (
	ShiftMorning   GroupShift = "morning"
	ShiftAfternoon GroupShift = "afternoon"
	ShiftEvening   GroupShift = "evening"
)

// GroupShifts lists the accepted shifts in display order.
var GroupShifts = []string{string(ShiftMorning), string(ShiftAfternoon), string(ShiftEvening)}

// Network is a grouping of centers with one designated headquarter.
// HeadquarterID and CenterIDs are mutually exclusive: the headquarter never
// appears in the associated-center list.
type Network struct {
	ID            string   `json:"id"`
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	HeadquarterID string   `json:"headquarterId,omitempty"`
	CenterIDs     []string `json:"centerIds,omitempty"`
}

func (n Network) EntityID() string { return n.ID }

// WithID returns a copy of n with the given id.
func (n Network) WithID(id string) Network { n.ID = id; return n }

// Center is one vocational-education center.
type Center struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Network      string `json:"network,omitempty"`
	Address      string `json:"address,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	Province     string `json:"province,omitempty"`
	Island       string `json:"island,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

func (c Center) EntityID() string { return c.ID }

// WithID returns a copy of c with the given id.
func (c Center) WithID(id string) Center { c.ID = id; return c }

// Department is a teaching department inside a center.
type Department struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Center string `json:"center,omitempty"`
	Head   string `json:"head,omitempty"`
	Email  string `json:"email,omitempty"`
}

func (d Department) EntityID() string { return d.ID }

// WithID returns a copy of d with the given id.
func (d Department) WithID(id string) Department { d.ID = id; return d }

// Group is a class group within a study.
type Group struct {
	Code  string     `json:"code"`
	Name  string     `json:"name"`
	Shift GroupShift `json:"shift"`
	Year  int        `json:"year"`
}

// Study is one qualification offered under a professional family.
type Study struct {
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Level  StudyLevel `json:"level"`
	Groups []Group    `json:"groups,omitempty"`
}

// Family is a professional family: a branch of studies and their groups.
type Family struct {
	ID      string  `json:"id"`
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Studies []Study `json:"studies,omitempty"`
}

func (f Family) EntityID() string { return f.ID }

// WithID returns a copy of f with the given id.
func (f Family) WithID(id string) Family { f.ID = id; return f }

// Objective is a strategic objective tracked by the network, with an
// independent active flag toggled from the UI.
type Objective struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Active      bool   `json:"active"`
}

func (o Objective) EntityID() string { return o.ID }

// WithID returns a copy of o with the given id.
func (o Objective) WithID(id string) Objective { o.ID = id; return o }

// Meeting is one calendar entry.
type Meeting struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
	CenterID string    `json:"centerId,omitempty"`
}

func (m Meeting) EntityID() string { return m.ID }

// WithID returns a copy of m with the given id.
func (m Meeting) WithID(id string) Meeting { m.ID = id; return m }

// ObservatoryItem is one entry of the observatory content catalog.
type ObservatoryItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

func (i ObservatoryItem) EntityID() string { return i.ID }

// WithID returns a copy of i with the given id.
func (i ObservatoryItem) WithID(id string) ObservatoryItem { i.ID = id; return i }

// RegistrationCode lets a new user self-register with a preassigned role
// and scope. Used codes are kept for audit, flagged rather than deleted.
type RegistrationCode struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Role      Role      `json:"role"`
	NetworkID string    `json:"networkId,omitempty"`
	CenterID  string    `json:"centerId,omitempty"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c RegistrationCode) EntityID() string { return c.ID }

// WithID returns a copy of c with the given id.
func (c RegistrationCode) WithID(id string) RegistrationCode { c.ID = id; return c }

// User is an application user. Authentication itself lives outside the core;
// only the role and scope used for filtering are kept here.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	NetworkID string `json:"networkId,omitempty"`
	CenterID  string `json:"centerId,omitempty"`
}

func (u User) EntityID() string { return u.ID }

// WithID returns a copy of u with the given id.
func (u User) WithID(id string) User { u.ID = id; return u }

// HelpSection is one block of the embedded help pages. Sections are the one
// record type listed in explicit Order rather than insertion order.
type HelpSection struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Order int    `json:"order"`
}

func (h HelpSection) EntityID() string { return h.ID }

// WithID returns a copy of h with the given id.
func (h HelpSection) WithID(id string) HelpSection { h.ID = id; return h }
