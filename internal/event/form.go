// Package event builds and dispatches new activity events.
package event

import (
	"strings"
	gosync "sync"

	"github.com/nhle/insyd/internal/model"
)

// FormState is the lifecycle state of a Form.
type FormState int

const (
	FormIdle FormState = iota
	FormPending
)

// Form holds the user-editable fields of the compose view together with the
// status line of the last submission.
type Form struct {
	mu           gosync.Mutex
	category     model.Category
	targetUserID string
	content      string
	status       string
	state        FormState
}

// NewForm returns an idle form.
func NewForm(category model.Category, targetUserID string) *Form {
	return &Form{category: category, targetUserID: targetUserID}
}

// FormValues is a copy of a Form's fields.
type FormValues struct {
	Category     model.Category
	TargetUserID string
	Content      string
	Status       string
	State        FormState
}

// Values returns a consistent copy of the form.
func (f *Form) Values() FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormValues{
		Category:     f.category,
		TargetUserID: f.targetUserID,
		Content:      f.content,
		Status:       f.status,
		State:        f.state,
	}
}

// SetCategory updates the event type.
func (f *Form) SetCategory(c model.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.category = c
}

// SetTarget updates the recipient.
func (f *Form) SetTarget(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targetUserID = userID
}

// SetContent updates the message text.
func (f *Form) SetContent(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = content
}

// Status returns the status line of the last submission.
func (f *Form) Status() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Pending reports whether a submission is in flight.
func (f *Form) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == FormPending
}

// Succeeded reports whether the status line describes a success.
func (f *Form) Succeeded() bool {
	return strings.Contains(strings.ToLower(f.Status()), "success")
}

// begin moves the form to pending and returns the values to submit. It
// returns false if the form is already pending.
func (f *Form) begin() (FormValues, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormPending {
		return FormValues{}, false
	}
	f.state = FormPending
	return FormValues{
		Category:     f.category,
		TargetUserID: f.targetUserID,
		Content:      f.content,
	}, true
}

// settle records the outcome and returns the form to idle.
func (f *Form) settle(status string, clearContent bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	if clearContent {
		f.content = ""
	}
	f.state = FormIdle
}

// abandon returns the form to idle without touching its fields.
func (f *Form) abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormIdle
}
