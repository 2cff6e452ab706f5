package sheets

// Wire shapes for the spreadsheet backend. Every request carries an action
// tag; every response carries at least success (+ optional message).

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type userPayload struct {
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	EmploymentType string          `json:"employmentType"`
	Permissions    map[string]bool `json:"permissions"`
}

type loginResponse struct {
	envelope
	User *userPayload `json:"user"`
}

type availabilityRow struct {
	Date           string `json:"date"`
	Shift          string `json:"shift"`
	Email          string `json:"email,omitempty"`
	Name           string `json:"name,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
}

type availabilityResponse struct {
	envelope
	Availability []availabilityRow `json:"availability"`
	// Legacy grouped shape still emitted by older deployments.
	Slots []slotGroup `json:"slots"`
}

type slotGroup struct {
	Date  string        `json:"date"`
	Shift string        `json:"shift"`
	Users []personBrief `json:"users"`
}

type personBrief struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Team           string `json:"team"`
	EmploymentType string `json:"employmentType,omitempty"`
}

type scheduleRow struct {
	Date           string `json:"date"`
	Shift          string `json:"shift"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Team           string `json:"team"`
	EmploymentType string `json:"employmentType,omitempty"`
	Note           string `json:"note"`
}

type scheduleResponse struct {
	envelope
	Schedule []scheduleRow `json:"schedule"`
}

type metaPayload struct {
	Status        string `json:"status"`
	LockedByEmail string `json:"lockedByEmail"`
	LockedByName  string `json:"lockedByName"`
	LockedAt      string `json:"lockedAt"`
	Note          string `json:"note"`
}

type metaResponse struct {
	envelope
	Meta *metaPayload `json:"meta"`
}
