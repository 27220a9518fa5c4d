package domain

import "sort"

// Policy names granted through roles.
const (
	PolicyCourseWrite      = "COURSE_WRITE"
	PolicyCourseRead       = "COURSE_READ"
	PolicyCourseUpdate     = "COURSE_UPDATE"
	PolicyCourseDelete     = "COURSE_DELETE"
	PolicyInstructorRead   = "INSTRUCTOR_READ"
	PolicyInstructorUpdate = "INSTRUCTOR_UPDATE"
	PolicyInstructorCreate = "INSTRUCTOR_CREATE"
	PolicyCommentRead      = "COMMENT_READ"
	PolicyCommentDelete    = "COMMENT_DELETE"
	PolicyCommentCreate    = "COMMENT_CREATE"
)

const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// Role is a named bundle of policies.
type Role struct {
	Name     string   `json:"name"`
	Policies []string `json:"policies"`
}

// DefaultRoles returns the baseline role catalogue provisioned on startup.
func DefaultRoles() []Role {
	return []Role{
		{
			Name: RoleAdmin,
			Policies: []string{
				PolicyCourseRead, PolicyCourseUpdate, PolicyCourseWrite, PolicyCourseDelete,
				PolicyInstructorCreate, PolicyInstructorRead, PolicyInstructorUpdate,
				PolicyCommentRead, PolicyCommentDelete, PolicyCommentCreate,
			},
		},
		{
			Name: RoleClient,
			Policies: []string{
				PolicyCourseRead, PolicyInstructorRead, PolicyCommentRead, PolicyCommentCreate,
			},
		},
	}
}

// PolicySet is a deduplicated set of policy names. Iteration order carries no
// meaning; use Sorted when a stable sequence is needed.
type PolicySet map[string]struct{}

// NewPolicySet builds a set from the given names, skipping empty ones.
func NewPolicySet(names ...string) PolicySet {
	s := make(PolicySet, len(names))
	s.Add(names...)
	return s
}

// Add inserts names into the set.
func (s PolicySet) Add(names ...string) {
	for _, n := range names {
		if n == "" {
			continue
		}
		s[n] = struct{}{}
	}
}

// Has reports whether the set contains name.
func (s PolicySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexical order.
func (s PolicySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
