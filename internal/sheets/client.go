// Package sheets is the client for the spreadsheet-backed scheduling
// backend: a single HTTP endpoint accepting action-tagged JSON bodies.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/thanhvo/shiftdesk/internal/schedule"
)

// Recorder is an optional sink for backend call metrics.
type Recorder interface {
	ObserveBackendRequest(action, outcome string, seconds float64)
	IncDroppedRecord(action string)
}

// BackendError is a response the backend itself rejected (success=false).
// Message is the backend's own text, surfaced verbatim to the user.
type BackendError struct {
	Action  string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected %s", e.Action)
	}
	return fmt.Sprintf("backend rejected %s: %s", e.Action, e.Message)
}

// Client talks to the scheduling backend. All requests are POSTs to one URL
// with a JSON body sent as text/plain;charset=utf-8: the sheet deployment
// rejects preflighted requests, so the plain content type is the de facto
// transport.
type Client struct {
	http    *resty.Client
	url     string
	metrics Recorder
}

// New creates a backend client for the given endpoint URL.
func New(url string, timeout time.Duration, retries int) *Client {
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries)
	return &Client{http: c, url: url}
}

// SetMetrics sets the optional metrics recorder.
func (c *Client) SetMetrics(r Recorder) {
	c.metrics = r
}

// call posts one action-tagged request and decodes the response into out,
// which must embed envelope. A success=false answer becomes a BackendError.
func (c *Client) call(ctx context.Context, action string, body interface{}, out interface{}, env *envelope) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", action, err)
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain;charset=utf-8").
		SetBody(payload).
		Post(c.url)
	if err != nil {
		c.observe(action, "transport_error", start)
		return fmt.Errorf("calling %s: %w", action, err)
	}
	if resp.IsError() {
		c.observe(action, "http_error", start)
		return fmt.Errorf("calling %s: backend returned status %d", action, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		c.observe(action, "decode_error", start)
		return fmt.Errorf("decoding %s response: %w", action, err)
	}
	if !env.Success {
		c.observe(action, "rejected", start)
		return &BackendError{Action: action, Message: env.Message}
	}
	c.observe(action, "ok", start)
	return nil
}

func (c *Client) observe(action, outcome string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveBackendRequest(action, outcome, time.Since(start).Seconds())
	}
}

func (c *Client) dropped(action string) {
	if c.metrics != nil {
		c.metrics.IncDroppedRecord(action)
	}
}

// Login verifies credentials against the backend's people sheet and maps the
// returned user record into an Employee.
func (c *Client) Login(ctx context.Context, email, password string) (schedule.Employee, error) {
	req := struct {
		Action   string `json:"action"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{"login", email, password}

	var resp loginResponse
	if err := c.call(ctx, "login", req, &resp, &resp.envelope); err != nil {
		return schedule.Employee{}, err
	}
	if resp.User == nil {
		return schedule.Employee{}, &BackendError{Action: "login", Message: "no user in response"}
	}
	return employeeFromUser(resp.User), nil
}

// employeeFromUser maps the wire user onto the domain Employee. Team is
// derived from the permission flags; CS wins when a user holds both.
func employeeFromUser(u *userPayload) schedule.Employee {
	team := schedule.TeamCS
	if !u.Permissions["cs"] && u.Permissions["marketing"] {
		team = schedule.TeamMO
	}

	employment := strings.ToLower(strings.TrimSpace(u.EmploymentType))
	if employment != schedule.FullTime {
		employment = schedule.PartTime
	}

	return schedule.Employee{
		Email:          strings.ToLower(strings.TrimSpace(u.Email)),
		Name:           u.Name,
		Role:           u.Role,
		Team:           team,
		EmploymentType: employment,
	}
}

// GetAvailability fetches one employee's free slots for a week. Rows are
// normalized at this boundary; malformed rows are dropped, not fatal.
func (c *Client) GetAvailability(ctx context.Context, email, weekStart string) ([]schedule.AvailabilityEntry, error) {
	req := struct {
		Action    string `json:"action"`
		Email     string `json:"email"`
		WeekStart string `json:"weekStart"`
	}{"getAvailability", email, weekStart}

	var resp availabilityResponse
	if err := c.call(ctx, "getAvailability", req, &resp, &resp.envelope); err != nil {
		return nil, err
	}

	entries := make([]schedule.AvailabilityEntry, 0, len(resp.Availability))
	for _, row := range resp.Availability {
		date, okDate := schedule.NormalizeDate(row.Date)
		shift, okShift := schedule.NormalizeShift(row.Shift)
		if !okDate || !okShift {
			c.dropped("getAvailability")
			continue
		}
		entries = append(entries, schedule.AvailabilityEntry{Date: date, Shift: shift})
	}
	return entries, nil
}

// SaveAvailability replaces the employee's whole week with the given
// entries. Full-replace semantics: the backend drops anything not listed.
func (c *Client) SaveAvailability(ctx context.Context, emp schedule.Employee, weekStart string, entries []schedule.AvailabilityEntry) error {
	req := struct {
		Action       string                       `json:"action"`
		Email        string                       `json:"email"`
		Name         string                       `json:"name"`
		WeekStart    string                       `json:"weekStart"`
		Availability []schedule.AvailabilityEntry `json:"availability"`
	}{"saveAvailability", emp.Email, emp.Name, weekStart, entries}
	if req.Availability == nil {
		req.Availability = []schedule.AvailabilityEntry{}
	}

	var resp envelope
	return c.call(ctx, "saveAvailability", req, &resp, &resp)
}

// GetAllAvailability fetches the whole team's availability for a week as a
// map slot ID -> people, deduplicated by lowercased email. The flat
// availability rows are the contract; the grouped slots shape from older
// deployments is accepted too.
func (c *Client) GetAllAvailability(ctx context.Context, weekStart, team string) (map[string][]schedule.Assignee, error) {
	req := struct {
		Action    string `json:"action"`
		WeekStart string `json:"weekStart"`
		Team      string `json:"team"`
	}{"getAllAvailability", weekStart, team}

	var resp availabilityResponse
	if err := c.call(ctx, "getAllAvailability", req, &resp, &resp.envelope); err != nil {
		return nil, err
	}

	out := make(map[string][]schedule.Assignee)
	add := func(rawDate, rawShift string, a schedule.Assignee) {
		date, okDate := schedule.NormalizeDate(rawDate)
		shift, okShift := schedule.NormalizeShift(rawShift)
		if !okDate || !okShift || a.EmailKey() == "" {
			c.dropped("getAllAvailability")
			return
		}
		id := schedule.SlotID(date, shift)
		for _, cur := range out[id] {
			if cur.EmailKey() == a.EmailKey() {
				return
			}
		}
		out[id] = append(out[id], a)
	}

	for _, row := range resp.Availability {
		add(row.Date, row.Shift, schedule.Assignee{
			Email:          row.Email,
			Name:           row.Name,
			Team:           team,
			EmploymentType: strings.ToLower(strings.TrimSpace(row.EmploymentType)),
		})
	}
	for _, group := range resp.Slots {
		for _, u := range group.Users {
			add(group.Date, group.Shift, schedule.Assignee{
				Email:          u.Email,
				Name:           u.Name,
				Team:           u.Team,
				EmploymentType: strings.ToLower(strings.TrimSpace(u.EmploymentType)),
			})
		}
	}
	return out, nil
}

// GetSchedule fetches the placed shifts for (week, team), normalized and
// deduplicated per slot by lowercased email.
func (c *Client) GetSchedule(ctx context.Context, weekStart, team string) ([]schedule.AssignmentRow, error) {
	req := struct {
		Action    string `json:"action"`
		WeekStart string `json:"weekStart"`
		Team      string `json:"team"`
	}{"getSchedule", weekStart, team}

	var resp scheduleResponse
	if err := c.call(ctx, "getSchedule", req, &resp, &resp.envelope); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	rows := make([]schedule.AssignmentRow, 0, len(resp.Schedule))
	for _, row := range resp.Schedule {
		date, okDate := schedule.NormalizeDate(row.Date)
		shift, okShift := schedule.NormalizeShift(row.Shift)
		email := strings.ToLower(strings.TrimSpace(row.Email))
		if !okDate || !okShift || email == "" {
			c.dropped("getSchedule")
			continue
		}
		key := date + "|" + shift + "|" + email
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, schedule.AssignmentRow{
			Date:           date,
			Shift:          shift,
			Email:          row.Email,
			Name:           row.Name,
			Team:           row.Team,
			EmploymentType: strings.ToLower(strings.TrimSpace(row.EmploymentType)),
			Note:           row.Note,
		})
	}
	return rows, nil
}

// SaveSchedule replaces the whole (week, team) schedule with the given rows.
func (c *Client) SaveSchedule(ctx context.Context, weekStart, team string, rows []schedule.AssignmentRow) error {
	wire := make([]scheduleRow, 0, len(rows))
	for _, r := range rows {
		wire = append(wire, scheduleRow{
			Date:           r.Date,
			Shift:          r.Shift,
			Email:          r.Email,
			Name:           r.Name,
			Team:           r.Team,
			EmploymentType: r.EmploymentType,
			Note:           r.Note,
		})
	}

	req := struct {
		Action    string        `json:"action"`
		WeekStart string        `json:"weekStart"`
		Team      string        `json:"team"`
		Schedule  []scheduleRow `json:"schedule"`
	}{"saveSchedule", weekStart, team, wire}

	var resp envelope
	return c.call(ctx, "saveSchedule", req, &resp, &resp)
}

// GetScheduleMeta fetches the lock record for (week, team). A backend with
// no record answers success with an empty meta; that maps to draft.
func (c *Client) GetScheduleMeta(ctx context.Context, weekStart, team string) (schedule.Meta, error) {
	req := struct {
		Action    string `json:"action"`
		WeekStart string `json:"weekStart"`
		Team      string `json:"team"`
	}{"getScheduleMeta", weekStart, team}

	var resp metaResponse
	if err := c.call(ctx, "getScheduleMeta", req, &resp, &resp.envelope); err != nil {
		return schedule.Meta{}, err
	}
	return metaFromPayload(resp.Meta), nil
}

// SetScheduleStatus writes a new draft/final status with the acting leader's
// stamp and returns the backend's authoritative meta.
func (c *Client) SetScheduleStatus(ctx context.Context, weekStart, team, status string, actor schedule.Employee, note string) (schedule.Meta, error) {
	req := struct {
		Action    string `json:"action"`
		WeekStart string `json:"weekStart"`
		Team      string `json:"team"`
		Status    string `json:"status"`
		UserEmail string `json:"userEmail"`
		UserName  string `json:"userName"`
		Note      string `json:"note"`
	}{"setScheduleStatus", weekStart, team, status, actor.Email, actor.Name, note}

	var resp metaResponse
	if err := c.call(ctx, "setScheduleStatus", req, &resp, &resp.envelope); err != nil {
		return schedule.Meta{}, err
	}
	meta := metaFromPayload(resp.Meta)
	if meta.Status == "" {
		// Backends that answer success without echoing the meta.
		meta = schedule.Meta{Status: status, LockedByEmail: actor.Email, LockedByName: actor.Name, Note: note}
	}
	return meta, nil
}

func metaFromPayload(p *metaPayload) schedule.Meta {
	if p == nil {
		return schedule.Meta{Status: schedule.StatusDraft}
	}
	m := schedule.Meta{
		Status:        strings.ToLower(strings.TrimSpace(p.Status)),
		LockedByEmail: p.LockedByEmail,
		LockedByName:  p.LockedByName,
		LockedAt:      p.LockedAt,
		Note:          p.Note,
	}
	m.Status = m.EffectiveStatus()
	return m
}
