package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
)

// memoryDB backs every fake store. writes counts mutating calls by name.
type memoryDB struct {
	nextID          int64
	profiles        map[int64]*models.Profile
	students        map[int64]*models.Student
	lecturers       map[int64]*models.Lecturer
	courses         map[int64]*models.Course
	departments     map[int64]*models.Department
	tokens          map[int64]*models.RefreshToken
	studentCourses  map[int64]map[int64]bool
	lecturerCourses map[int64]map[int64]bool
	writes          map[string]int
	failWith        error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		profiles:        map[int64]*models.Profile{},
		students:        map[int64]*models.Student{},
		lecturers:       map[int64]*models.Lecturer{},
		courses:         map[int64]*models.Course{},
		departments:     map[int64]*models.Department{},
		tokens:          map[int64]*models.RefreshToken{},
		studentCourses:  map[int64]map[int64]bool{},
		lecturerCourses: map[int64]map[int64]bool{},
		writes:          map[string]int{},
	}
}

func (m *memoryDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryDB) addProfile(role models.Role) *models.Profile {
	id := m.id()
	p := &models.Profile{ID: id, FirstName: "First", LastName: "Last", Email: fmt.Sprintf("%s%d@uni.edu", strings.ToLower(string(role)), id), Role: role}
	m.profiles[p.ID] = p
	return p
}

func (m *memoryDB) addCourse(title string) *models.Course {
	c := &models.Course{ID: m.id(), Title: title, Credits: 3}
	m.courses[c.ID] = c
	return c
}

func (m *memoryDB) addStudent(profileID int64) *models.Student {
	s := &models.Student{ID: m.id(), ProfileID: profileID}
	m.students[s.ID] = s
	return s
}

func (m *memoryDB) addLecturer(profileID int64) *models.Lecturer {
	l := &models.Lecturer{ID: m.id(), ProfileID: profileID, EmployeeID: "EMP", Specialization: "AI"}
	m.lecturers[l.ID] = l
	return l
}

func (m *memoryDB) addDepartment(name string) *models.Department {
	d := &models.Department{ID: m.id(), Name: name}
	m.departments[d.ID] = d
	return d
}

// fakeLinks implements CourseLinkStore over one link map
type fakeLinks struct {
	db    *memoryDB
	links map[int64]map[int64]bool
}

func (f fakeLinks) ListCourses(_ context.Context, ownerID int64) ([]*models.Course, error) {
	if f.db.failWith != nil {
		return nil, f.db.failWith
	}
	ids := make([]int64, 0)
	for id := range f.links[ownerID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	courses := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		courses = append(courses, f.db.courses[id])
	}
	return courses, nil
}

func (f fakeLinks) AddCourse(_ context.Context, ownerID, courseID int64) error {
	f.db.writes["AddCourse"]++
	if f.links[ownerID] == nil {
		f.links[ownerID] = map[int64]bool{}
	}
	f.links[ownerID][courseID] = true
	return nil
}

func (f fakeLinks) RemoveCourse(_ context.Context, ownerID, courseID int64) error {
	f.db.writes["RemoveCourse"]++
	if !f.links[ownerID][courseID] {
		return apperrors.ErrResourceNotFound
	}
	delete(f.links[ownerID], courseID)
	return nil
}

func (f fakeLinks) ReplaceCourses(_ context.Context, ownerID int64, courseIDs []int64) error {
	f.db.writes["ReplaceCourses"]++
	set := map[int64]bool{}
	for _, id := range courseIDs {
		set[id] = true
	}
	f.links[ownerID] = set
	return nil
}

type fakeProfiles struct{ db *memoryDB }

func (f fakeProfiles) Create(_ context.Context, p *models.Profile) error {
	f.db.writes["CreateProfile"]++
	for _, existing := range f.db.profiles {
		if existing.Email == p.Email {
			return apperrors.NewConflictError("Profile with email " + p.Email + " already exists")
		}
	}
	p.ID = f.db.id()
	p.CreatedAt = time.Now()
	stored := *p
	f.db.profiles[p.ID] = &stored
	return nil
}

func (f fakeProfiles) GetByID(_ context.Context, id int64) (*models.Profile, error) {
	if f.db.failWith != nil {
		return nil, f.db.failWith
	}
	p, ok := f.db.profiles[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	out := *p
	out.Password = ""
	return &out, nil
}

func (f fakeProfiles) GetCredentialsByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range f.db.profiles {
		if p.Email == email {
			out := *p
			return &out, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeProfiles) List(_ context.Context, email string) ([]*models.Profile, error) {
	out := make([]*models.Profile, 0)
	for _, p := range f.db.profiles {
		if email == "" || p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakeProfiles) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Profile, error) {
	f.db.writes["UpdateProfile"]++
	p, ok := f.db.profiles[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if v, ok := fields["first_name"].(string); ok {
		p.FirstName = v
	}
	if v, ok := fields["last_name"].(string); ok {
		p.LastName = v
	}
	if v, ok := fields["email"].(string); ok {
		p.Email = v
	}
	if v, ok := fields["password"].(string); ok {
		p.Password = v
	}
	if v, ok := fields["role"].(models.Role); ok {
		p.Role = v
	}
	return f.GetByID(ctx, id)
}

func (f fakeProfiles) Delete(_ context.Context, id int64) error {
	f.db.writes["DeleteProfile"]++
	if _, ok := f.db.profiles[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.db.profiles, id)
	return nil
}

func (f fakeProfiles) Exists(_ context.Context, id int64) (bool, error) {
	if f.db.failWith != nil {
		return false, f.db.failWith
	}
	_, ok := f.db.profiles[id]
	return ok, nil
}

type fakeStudents struct {
	fakeLinks
	db *memoryDB
}

func newFakeStudents(db *memoryDB) fakeStudents {
	return fakeStudents{fakeLinks: fakeLinks{db: db, links: db.studentCourses}, db: db}
}

func (f fakeStudents) withProfile(s *models.Student) *models.Student {
	out := *s
	if p, ok := f.db.profiles[s.ProfileID]; ok {
		cp := *p
		out.Profile = &cp
	}
	return &out
}

func (f fakeStudents) Create(_ context.Context, s *models.Student) error {
	f.db.writes["CreateStudent"]++
	s.ID = f.db.id()
	stored := *s
	f.db.students[s.ID] = &stored
	return nil
}

func (f fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := f.db.students[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return f.withProfile(s), nil
}

func (f fakeStudents) List(_ context.Context, name string) ([]*models.Student, error) {
	out := make([]*models.Student, 0)
	for _, s := range f.db.students {
		out = append(out, f.withProfile(s))
	}
	return out, nil
}

func (f fakeStudents) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Student, error) {
	f.db.writes["UpdateStudent"]++
	s, ok := f.db.students[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if v, ok := fields["gpa"].(float64); ok {
		s.GPA = &v
	}
	if v, ok := fields["degree_program"].(string); ok {
		s.DegreeProgram = &v
	}
	if v, ok := fields["department_id"].(int64); ok {
		s.DepartmentID = &v
	}
	if v, ok := fields["enrollment_date"].(time.Time); ok {
		s.EnrollmentDate = v
	}
	return f.GetByID(ctx, id)
}

func (f fakeStudents) Delete(_ context.Context, id int64) error {
	f.db.writes["DeleteStudent"]++
	if _, ok := f.db.students[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.db.students, id)
	return nil
}

func (f fakeStudents) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.db.students[id]
	return ok, nil
}

func (f fakeStudents) ListByCourse(_ context.Context, courseID int64) ([]*models.Student, error) {
	out := make([]*models.Student, 0)
	for studentID, courses := range f.db.studentCourses {
		if courses[courseID] {
			out = append(out, f.withProfile(f.db.students[studentID]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeLecturers struct {
	fakeLinks
	db *memoryDB
}

func newFakeLecturers(db *memoryDB) fakeLecturers {
	return fakeLecturers{fakeLinks: fakeLinks{db: db, links: db.lecturerCourses}, db: db}
}

func (f fakeLecturers) Create(_ context.Context, l *models.Lecturer) error {
	f.db.writes["CreateLecturer"]++
	l.ID = f.db.id()
	stored := *l
	f.db.lecturers[l.ID] = &stored
	return nil
}

func (f fakeLecturers) GetByID(_ context.Context, id int64) (*models.Lecturer, error) {
	l, ok := f.db.lecturers[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	out := *l
	return &out, nil
}

func (f fakeLecturers) List(_ context.Context, _ string) ([]*models.Lecturer, error) {
	out := make([]*models.Lecturer, 0)
	for _, l := range f.db.lecturers {
		out = append(out, l)
	}
	return out, nil
}

func (f fakeLecturers) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Lecturer, error) {
	f.db.writes["UpdateLecturer"]++
	l, ok := f.db.lecturers[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if v, ok := fields["specialization"].(string); ok {
		l.Specialization = v
	}
	return f.GetByID(ctx, id)
}

func (f fakeLecturers) Delete(_ context.Context, id int64) error {
	f.db.writes["DeleteLecturer"]++
	if _, ok := f.db.lecturers[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.db.lecturers, id)
	return nil
}

func (f fakeLecturers) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.db.lecturers[id]
	return ok, nil
}

type fakeCourses struct{ db *memoryDB }

func (f fakeCourses) Create(_ context.Context, c *models.Course) error {
	f.db.writes["CreateCourse"]++
	c.ID = f.db.id()
	stored := *c
	f.db.courses[c.ID] = &stored
	return nil
}

func (f fakeCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.db.courses[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	out := *c
	return &out, nil
}

func (f fakeCourses) List(_ context.Context, _ string) ([]*models.Course, error) {
	out := make([]*models.Course, 0)
	for _, c := range f.db.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f fakeCourses) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Course, error) {
	f.db.writes["UpdateCourse"]++
	c, ok := f.db.courses[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if v, ok := fields["title"].(string); ok {
		c.Title = v
	}
	if v, ok := fields["start_date"].(time.Time); ok {
		c.StartDate = v
	}
	if v, ok := fields["end_date"].(time.Time); ok {
		c.EndDate = v
	}
	return f.GetByID(ctx, id)
}

func (f fakeCourses) Delete(_ context.Context, id int64) error {
	f.db.writes["DeleteCourse"]++
	if _, ok := f.db.courses[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.db.courses, id)
	return nil
}

func (f fakeCourses) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.db.courses[id]
	return ok, nil
}

func (f fakeCourses) FindExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	found := make([]int64, 0)
	for _, id := range ids {
		if _, ok := f.db.courses[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

type fakeDepartments struct{ db *memoryDB }

func (f fakeDepartments) Create(_ context.Context, d *models.Department) error {
	f.db.writes["CreateDepartment"]++
	d.ID = f.db.id()
	stored := *d
	f.db.departments[d.ID] = &stored
	return nil
}

func (f fakeDepartments) GetByID(_ context.Context, id int64) (*models.Department, error) {
	d, ok := f.db.departments[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	out := *d
	return &out, nil
}

func (f fakeDepartments) List(_ context.Context, _ string) ([]*models.Department, error) {
	out := make([]*models.Department, 0)
	for _, d := range f.db.departments {
		out = append(out, d)
	}
	return out, nil
}

func (f fakeDepartments) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Department, error) {
	f.db.writes["UpdateDepartment"]++
	d, ok := f.db.departments[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if v, ok := fields["name"].(string); ok {
		d.Name = v
	}
	return f.GetByID(ctx, id)
}

func (f fakeDepartments) Delete(_ context.Context, id int64) error {
	f.db.writes["DeleteDepartment"]++
	if _, ok := f.db.departments[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.db.departments, id)
	return nil
}

func (f fakeDepartments) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.db.departments[id]
	return ok, nil
}

type fakeTokens struct{ db *memoryDB }

func (f fakeTokens) CreateToken(_ context.Context, hash string, profileID int64, expiresAt time.Time) error {
	f.db.writes["CreateToken"]++
	t := &models.RefreshToken{ID: f.db.id(), TokenHash: hash, ProfileID: profileID, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	f.db.tokens[t.ID] = t
	return nil
}

func (f fakeTokens) GetByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	for _, t := range f.db.tokens {
		if t.TokenHash == hash {
			out := *t
			return &out, nil
		}
	}
	return nil, apperrors.ErrTokenNotFound
}

func (f fakeTokens) RevokeToken(_ context.Context, id int64) error {
	t, ok := f.db.tokens[id]
	if !ok || t.Revoked {
		return apperrors.ErrTokenRevoked
	}
	t.Revoked = true
	return nil
}

func (f fakeTokens) RevokeAllProfileTokens(_ context.Context, profileID int64) (int64, error) {
	f.db.writes["RevokeAll"]++
	var n int64
	for _, t := range f.db.tokens {
		if t.ProfileID == profileID && !t.Revoked {
			t.Revoked = true
			n++
		}
	}
	return n, nil
}

func (f fakeTokens) CleanupExpiredTokens(_ context.Context) (int64, error) {
	var n int64
	for id, t := range f.db.tokens {
		if t.Expired(time.Now()) {
			delete(f.db.tokens, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryDB) activeTokens(profileID int64) int {
	n := 0
	for _, t := range m.tokens {
		if t.ProfileID == profileID && !t.Revoked {
			n++
		}
	}
	return n
}
