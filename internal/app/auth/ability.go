package auth

import "github.com/yigit/unimanage/internal/app/models"

// Action is an operation a profile may perform on a subject.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionManage matches every action
	ActionManage Action = "manage"
)

// Subject is a resource kind guarded by the ability.
type Subject string

const (
	SubjectProfile    Subject = "Profile"
	SubjectStudent    Subject = "Student"
	SubjectLecturer   Subject = "Lecturer"
	SubjectCourse     Subject = "Course"
	SubjectDepartment Subject = "Department"
	// SubjectAll matches every subject
	SubjectAll Subject = "all"
)

// Rule grants one action on one subject.
type Rule struct {
	Action  Action
	Subject Subject
}

func (r Rule) matches(action Action, subject Subject) bool {
	return (r.Action == action || r.Action == ActionManage) &&
		(r.Subject == subject || r.Subject == SubjectAll)
}

// Ability is the capability set of one profile. The zero value grants nothing.
type Ability struct {
	rules []Rule
}

// Can reports whether any rule grants action on subject.
func (a Ability) Can(action Action, subject Subject) bool {
	for _, rule := range a.rules {
		if rule.matches(action, subject) {
			return true
		}
	}
	return false
}

// Cannot is the negation of Can
func (a Ability) Cannot(action Action, subject Subject) bool {
	return !a.Can(action, subject)
}

// Rules returns a copy of the granted rules
func (a Ability) Rules() []Rule {
	out := make([]Rule, len(a.rules))
	copy(out, a.rules)
	return out
}

// AbilityBuilder accumulates rules
type AbilityBuilder struct {
	rules []Rule
}

// Can grants action on every listed subject
func (b *AbilityBuilder) Can(action Action, subjects ...Subject) *AbilityBuilder {
	for _, subject := range subjects {
		b.rules = append(b.rules, Rule{Action: action, Subject: subject})
	}
	return b
}

// Build freezes the rules into an Ability
func (b *AbilityBuilder) Build() Ability {
	return Ability{rules: b.rules}
}

// AbilityFactory maps a profile's role to its Ability.
type AbilityFactory struct{}

// NewAbilityFactory creates a new AbilityFactory
func NewAbilityFactory() *AbilityFactory {
	return &AbilityFactory{}
}

// CreateForUser returns the ability of profile. A nil profile or an unknown
// role yields an ability with no grants.
func (f *AbilityFactory) CreateForUser(profile *models.Profile) Ability {
	b := &AbilityBuilder{}
	if profile == nil {
		return b.Build()
	}

	switch profile.Role {
	case models.RoleAdmin:
		b.Can(ActionManage, SubjectAll)

	case models.RoleFaculty:
		b.Can(ActionRead, SubjectProfile, SubjectStudent, SubjectCourse, SubjectDepartment, SubjectLecturer)
		b.Can(ActionCreate, SubjectCourse, SubjectLecturer)
		b.Can(ActionUpdate, SubjectCourse, SubjectStudent, SubjectLecturer, SubjectProfile)
		b.Can(ActionDelete, SubjectCourse)

	case models.RoleStudent:
		b.Can(ActionRead, SubjectCourse, SubjectDepartment, SubjectLecturer, SubjectProfile, SubjectStudent)
		b.Can(ActionUpdate, SubjectProfile, SubjectStudent)

	case models.RoleGuest:
		b.Can(ActionRead, SubjectCourse, SubjectDepartment, SubjectProfile)
		b.Can(ActionUpdate, SubjectProfile)
	}

	return b.Build()
}
