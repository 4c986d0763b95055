package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/middleware"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/auth"
	"github.com/yigit/unimanage/internal/seed"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// as stores the requester and its ability the way JWTAuth and the policy guard do
func as(profile *models.Profile) gin.HandlerFunc {
	return func(c *gin.Context) {
		if profile != nil {
			c.Set(middleware.ContextProfileKey, profile)
			c.Set(middleware.ContextAbilityKey, authz.NewAbilityFactory().CreateForUser(profile))
		}
		c.Next()
	}
}

// ownerOnly allows the requester to act on the record whose id equals its own
type ownerOnly struct {
	calls int
}

func (o *ownerOnly) CheckOwnership(_ context.Context, requester *models.Profile, subject authz.Subject, _ authz.Action, targetID int64) error {
	o.calls++
	if requester == nil || requester.ID != targetID {
		return apperrors.NewForbiddenError(fmt.Sprintf("%s %d is not owned by the requester", subject, targetID), apperrors.CodeOwnershipDenied)
	}
	return nil
}

type stubProfiles struct {
	created *dto.CreateProfileRequest
	updated *dto.UpdateProfileRequest
	err     error
}

func (s *stubProfiles) Create(_ context.Context, req *dto.CreateProfileRequest) (*models.Profile, error) {
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Profile{ID: 1, FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, Password: "hash", Role: models.RoleGuest}, nil
}

func (s *stubProfiles) FindAll(_ context.Context, filter dto.ProfileFilter) ([]*models.Profile, error) {
	return []*models.Profile{{ID: 1, Email: filter.Email}}, s.err
}

func (s *stubProfiles) FindOne(_ context.Context, id int64) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Profile{ID: id, Role: models.RoleStudent}, nil
}

func (s *stubProfiles) Update(_ context.Context, id int64, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	s.updated = req
	return &models.Profile{ID: id}, s.err
}

func (s *stubProfiles) Remove(_ context.Context, _ int64) error {
	return s.err
}

func TestProfileController_CreateHidesPassword(t *testing.T) {
	profiles := &stubProfiles{}
	ctrl := NewProfileController(profiles, &ownerOnly{})
	router := gin.New()
	router.POST("/profiles", ctrl.Create)

	rec := serve(router, http.MethodPost, "/profiles", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@uni.edu","password":"secret"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")
	assert.NotContains(t, rec.Body.String(), "password")
	require.NotNil(t, profiles.created)
	assert.Equal(t, "ada@uni.edu", profiles.created.Email)
}

func TestProfileController_CreateValidation(t *testing.T) {
	profiles := &stubProfiles{}
	ctrl := NewProfileController(profiles, &ownerOnly{})
	router := gin.New()
	router.POST("/profiles", ctrl.Create)

	rec := serve(router, http.MethodPost, "/profiles", `{"firstName":"Ada","lastName":"Lovelace","email":"not-an-email","password":"secret"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(dto.ErrorCodeValidationFailed), decode(t, rec).Error.Code)
	assert.Nil(t, profiles.created)
}

func TestProfileController_CreateConflict(t *testing.T) {
	profiles := &stubProfiles{err: apperrors.NewConflictError("Profile with email ada@uni.edu already exists")}
	router := gin.New()
	router.POST("/profiles", NewProfileController(profiles, &ownerOnly{}).Create)

	rec := serve(router, http.MethodPost, "/profiles", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@uni.edu","password":"secret"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProfileController_CreateRoleNeedsManage(t *testing.T) {
	tests := []struct {
		name      string
		requester *models.Profile
		role      string
		status    int
	}{
		{"anonymous guest", nil, "GUEST", http.StatusCreated},
		{"anonymous admin", nil, "ADMIN", http.StatusForbidden},
		{"student creates faculty", &models.Profile{ID: 2, Role: models.RoleStudent}, "FACULTY", http.StatusForbidden},
		{"admin creates faculty", &models.Profile{ID: 1, Role: models.RoleAdmin}, "FACULTY", http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &stubProfiles{}
			router := gin.New()
			router.POST("/profiles", as(tt.requester), NewProfileController(profiles, &ownerOnly{}).Create)

			rec := serve(router, http.MethodPost, "/profiles", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@uni.edu","password":"secret","role":"`+tt.role+`"}`)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.status == http.StatusCreated, profiles.created != nil)
		})
	}
}

func TestProfileController_FindOneOwnership(t *testing.T) {
	ownership := &ownerOnly{}
	ctrl := NewProfileController(&stubProfiles{}, ownership)

	owner := &models.Profile{ID: 3, Role: models.RoleStudent}
	router := gin.New()
	router.GET("/profiles/:id", as(owner), ctrl.FindOne)

	rec := serve(router, http.MethodGet, "/profiles/3", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/profiles/4", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Forbidden resource", body.Error.Message)
	assert.Equal(t, 2, ownership.calls)
}

func TestProfileController_FindOneInvalidID(t *testing.T) {
	ownership := &ownerOnly{}
	router := gin.New()
	router.GET("/profiles/:id", as(&models.Profile{ID: 1}), NewProfileController(&stubProfiles{}, ownership).FindOne)

	rec := serve(router, http.MethodGet, "/profiles/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id must be a positive integer", decode(t, rec).Error.Message)
	assert.Zero(t, ownership.calls)
}

func TestProfileController_RoleChangeNeedsManage(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		body    string
		status  int
		reaches bool
	}{
		{"student renames self", models.RoleStudent, `{"firstName":"Grace"}`, http.StatusOK, true},
		{"student promotes self", models.RoleStudent, `{"role":"ADMIN"}`, http.StatusForbidden, false},
		{"admin changes own role", models.RoleAdmin, `{"role":"FACULTY"}`, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &stubProfiles{}
			router := gin.New()
			router.PATCH("/profiles/:id", as(&models.Profile{ID: 5, Role: tt.role}), NewProfileController(profiles, &ownerOnly{}).Update)

			rec := serve(router, http.MethodPatch, "/profiles/5", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.reaches, profiles.updated != nil)
		})
	}
}

func TestProfileController_Remove(t *testing.T) {
	router := gin.New()
	router.DELETE("/profiles/:id", NewProfileController(&stubProfiles{}, &ownerOnly{}).Remove)

	rec := serve(router, http.MethodDelete, "/profiles/9", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var msg dto.MessageResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &msg))
	assert.Equal(t, "Profile with ID 9 deleted", msg.Message)
}

type stubStudents struct {
	StudentService
	replaced []int64
	assigned [2]int64
	err      error
}

func (s *stubStudents) ReplaceCourses(_ context.Context, id int64, courseIDs []int64) (*models.Student, error) {
	s.replaced = courseIDs
	if s.err != nil {
		return nil, s.err
	}
	return &models.Student{ID: id}, nil
}

func (s *stubStudents) AssignCourse(_ context.Context, id, courseID int64) (*models.Student, error) {
	s.assigned = [2]int64{id, courseID}
	return &models.Student{ID: id}, s.err
}

func TestStudentController_ReplaceCoursesBody(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   []int64
	}{
		{"ids", `[1, 2, 3]`, http.StatusOK, []int64{1, 2, 3}},
		{"empty clears", `[]`, http.StatusOK, []int64{}},
		{"null", `null`, http.StatusBadRequest, nil},
		{"object", `{"ids":[1]}`, http.StatusBadRequest, nil},
		{"non positive", `[1, 0]`, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students := &stubStudents{}
			router := gin.New()
			router.PATCH("/students/:id/courses", as(&models.Profile{ID: 2, Role: models.RoleStudent}), NewStudentController(students, &ownerOnly{}).ReplaceCourses)

			rec := serve(router, http.MethodPatch, "/students/2/courses", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, students.replaced)
		})
	}
}

func TestStudentController_ReplaceCoursesMissingCourse(t *testing.T) {
	students := &stubStudents{err: apperrors.NewResourceNotFoundError("Course with ID 42 not found")}
	router := gin.New()
	router.PATCH("/students/:id/courses", as(&models.Profile{ID: 2}), NewStudentController(students, &ownerOnly{}).ReplaceCourses)

	rec := serve(router, http.MethodPatch, "/students/2/courses", `[42]`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Course with ID 42 not found", decode(t, rec).Error.Message)
}

func TestStudentController_AssignCourseChecksOwnershipFirst(t *testing.T) {
	students := &stubStudents{}
	router := gin.New()
	router.POST("/students/:id/courses/:courseId", as(&models.Profile{ID: 2}), NewStudentController(students, &ownerOnly{}).AssignCourse)

	rec := serve(router, http.MethodPost, "/students/7/courses/3", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, [2]int64{}, students.assigned)

	rec = serve(router, http.MethodPost, "/students/2/courses/3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]int64{2, 3}, students.assigned)
}

type stubCourses struct {
	CourseService
	enrolled [2]int64
}

func (s *stubCourses) EnrollStudent(_ context.Context, id, studentID int64) (*models.Course, error) {
	s.enrolled = [2]int64{id, studentID}
	return &models.Course{ID: id}, nil
}

func TestCourseController_EnrollStudentParams(t *testing.T) {
	courses := &stubCourses{}
	router := gin.New()
	router.POST("/courses/:id/students/:studentId", NewCourseController(courses).EnrollStudent)

	rec := serve(router, http.MethodPost, "/courses/4/students/-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "studentId must be a positive integer", decode(t, rec).Error.Message)

	rec = serve(router, http.MethodPost, "/courses/4/students/8", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]int64{4, 8}, courses.enrolled)
}

type stubAuth struct {
	AuthService
	refreshID    int64
	refreshToken string
	signOutBy    *models.Profile
	err          error
}

func (s *stubAuth) SignIn(_ context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AuthResponse{Token: dto.TokenResponse{AccessToken: "access", TokenType: "Bearer"}, Profile: &models.Profile{ID: 1, Email: req.Email}}, nil
}

func (s *stubAuth) Refresh(_ context.Context, profileID int64, refreshToken string) (*dto.TokenResponse, error) {
	s.refreshID = profileID
	s.refreshToken = refreshToken
	return &dto.TokenResponse{AccessToken: "new-access", RefreshToken: "new-refresh", TokenType: "Bearer"}, s.err
}

func (s *stubAuth) SignOut(_ context.Context, requester *models.Profile, _ int64) error {
	s.signOutBy = requester
	return s.err
}

func (s *stubAuth) ValidateAccessClaims(_ context.Context, _ *auth.Claims) (*models.Profile, error) {
	return nil, nil
}

func TestAuthController_SignIn(t *testing.T) {
	router := gin.New()
	router.POST("/auth/signin", NewAuthController(&stubAuth{}, zerolog.Nop()).SignIn)

	rec := serve(router, http.MethodPost, "/auth/signin", `{"email":"ada@uni.edu","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &resp))
	assert.Equal(t, "access", resp.Token.AccessToken)

	rec = serve(router, http.MethodPost, "/auth/signin", `{"email":"ada@uni.edu"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthController_SignInInvalidCredentials(t *testing.T) {
	svc := &stubAuth{err: apperrors.NewAuthenticationError(apperrors.ErrInvalidCredentials, "Invalid credentials")}
	router := gin.New()
	router.POST("/auth/signin", NewAuthController(svc, zerolog.Nop()).SignIn)

	rec := serve(router, http.MethodPost, "/auth/signin", `{"email":"ada@uni.edu","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(dto.ErrorCodeInvalidCredentials), decode(t, rec).Error.Code)
}

func TestAuthController_RefreshReadsBearerAndID(t *testing.T) {
	svc := &stubAuth{}
	router := gin.New()
	router.GET("/auth/refresh", NewAuthController(svc, zerolog.Nop()).Refresh)

	req := httptest.NewRequest(http.MethodGet, "/auth/refresh?id=12", nil)
	req.Header.Set("Authorization", "Bearer opaque-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), svc.refreshID)
	assert.Equal(t, "opaque-token", svc.refreshToken)
}

func TestAuthController_RefreshRejectsMissingInput(t *testing.T) {
	svc := &stubAuth{}
	router := gin.New()
	router.GET("/auth/refresh", NewAuthController(svc, zerolog.Nop()).Refresh)

	rec := serve(router, http.MethodGet, "/auth/refresh", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodGet, "/auth/refresh?id=12", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.refreshToken)
}

func TestAuthController_SignOutPassesRequester(t *testing.T) {
	svc := &stubAuth{}
	requester := &models.Profile{ID: 4, Role: models.RoleStudent}
	router := gin.New()
	router.GET("/auth/signout/:id", as(requester), NewAuthController(svc, zerolog.Nop()).SignOut)

	rec := serve(router, http.MethodGet, "/auth/signout/4", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, requester, svc.signOutBy)
}

type stubSeeder struct {
	summary *seed.Summary
	err     error
}

func (s stubSeeder) Seed(context.Context) (*seed.Summary, error) {
	return s.summary, s.err
}

func TestSeedController(t *testing.T) {
	router := gin.New()
	router.POST("/seed", NewSeedController(stubSeeder{summary: &seed.Summary{Departments: 8, Courses: 15, Lecturers: 10, Students: 20, AdminID: 54}}).Seed)

	rec := serve(router, http.MethodPost, "/seed", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	var summary seed.Summary
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &summary))
	assert.Equal(t, 20, summary.Students)
	assert.Equal(t, int64(54), summary.AdminID)
}

func TestSeedControllerFailure(t *testing.T) {
	router := gin.New()
	router.POST("/seed", NewSeedController(stubSeeder{err: apperrors.NewStorageError("failed to seed database", assert.AnError)}).Seed)

	rec := serve(router, http.MethodPost, "/seed", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, string(dto.ErrorCodeDatabaseError), decode(t, rec).Error.Code)
}
