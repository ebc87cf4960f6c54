package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	appauth "github.com/emre/lmsphere/internal/app/auth"
	"github.com/emre/lmsphere/internal/app/models"
	"github.com/emre/lmsphere/internal/pkg/apperrors"
	"github.com/emre/lmsphere/internal/pkg/auth"
	"github.com/emre/lmsphere/internal/pkg/filestorage"
)

// memStore is a shared in-memory backing for the fake repositories, so that
// cross-entity operations (cascade deletes, joins) behave like the real
// database.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	users       map[int64]*models.User
	courses     map[int64]*models.Course
	lessons     map[int64]*models.Lesson
	files       map[int64]*models.LessonFile
	enrollments map[int64]*models.Enrollment
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int64]*models.User),
		courses:     make(map[int64]*models.Course),
		lessons:     make(map[int64]*models.Lesson),
		files:       make(map[int64]*models.LessonFile),
		enrollments: make(map[int64]*models.Enrollment),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	id := r.s.id()
	stored := *user
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.users[id] = &stored
	return id, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeCourseRepo struct{ s *memStore }

func (r *fakeCourseRepo) Create(ctx context.Context, course *models.Course) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := r.s.id()
	stored := *course
	stored.ID = id
	r.s.courses[id] = &stored
	return id, nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	course, ok := r.s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *fakeCourseRepo) GetAll(ctx context.Context) ([]models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	courses := make([]models.Course, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r *fakeCourseRepo) GetByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error) {
	all, _ := r.GetAll(ctx)
	var courses []models.Course
	for _, c := range all {
		if c.TeacherID == teacherID {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	stored := *course
	r.s.courses[course.ID] = &stored
	return nil
}

func (r *fakeCourseRepo) DeleteCascade(ctx context.Context, courseID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[courseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for id, lesson := range r.s.lessons {
		if lesson.CourseID != courseID {
			continue
		}
		for fid, f := range r.s.files {
			if f.LessonID == id {
				delete(r.s.files, fid)
			}
		}
		delete(r.s.lessons, id)
	}
	for id, e := range r.s.enrollments {
		if e.CourseID == courseID {
			delete(r.s.enrollments, id)
		}
	}
	delete(r.s.courses, courseID)
	return nil
}

type fakeLessonRepo struct{ s *memStore }

func (r *fakeLessonRepo) Create(ctx context.Context, lesson *models.Lesson) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := r.s.id()
	stored := *lesson
	stored.ID = id
	r.s.lessons[id] = &stored
	return id, nil
}

func (r *fakeLessonRepo) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lesson, ok := r.s.lessons[id]
	if !ok {
		return nil, apperrors.ErrLessonNotFound
	}
	copied := *lesson
	return &copied, nil
}

func (r *fakeLessonRepo) GetByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var lessons []models.Lesson
	for _, l := range r.s.lessons {
		if l.CourseID == courseID {
			lessons = append(lessons, *l)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].ID < lessons[j].ID })
	return lessons, nil
}

func (r *fakeLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lessons[lesson.ID]; !ok {
		return apperrors.ErrLessonNotFound
	}
	stored := *lesson
	r.s.lessons[lesson.ID] = &stored
	return nil
}

func (r *fakeLessonRepo) DeleteWithFiles(ctx context.Context, lessonID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lessons[lessonID]; !ok {
		return apperrors.ErrLessonNotFound
	}
	for id, f := range r.s.files {
		if f.LessonID == lessonID {
			delete(r.s.files, id)
		}
	}
	delete(r.s.lessons, lessonID)
	return nil
}

type fakeFileRepo struct{ s *memStore }

func (r *fakeFileRepo) Create(ctx context.Context, file *models.LessonFile) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := r.s.id()
	stored := *file
	stored.ID = id
	r.s.files[id] = &stored
	return id, nil
}

func (r *fakeFileRepo) GetByLesson(ctx context.Context, lessonID int64) ([]models.LessonFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var files []models.LessonFile
	for _, f := range r.s.files {
		if f.LessonID == lessonID {
			files = append(files, *f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

func (r *fakeFileRepo) GetByCourse(ctx context.Context, courseID int64) ([]models.LessonFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var files []models.LessonFile
	for _, f := range r.s.files {
		lesson, ok := r.s.lessons[f.LessonID]
		if ok && lesson.CourseID == courseID {
			files = append(files, *f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

type fakeEnrollmentRepo struct{ s *memStore }

func (r *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return false, nil
		}
	}
	id := r.s.id()
	stored := *enrollment
	stored.ID = id
	r.s.enrollments[id] = &stored
	return true, nil
}

func (r *fakeEnrollmentRepo) Exists(ctx context.Context, studentID, courseID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEnrollmentRepo) Delete(ctx context.Context, studentID, courseID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			delete(r.s.enrollments, id)
			return nil
		}
	}
	return apperrors.ErrNotEnrolled
}

func (r *fakeEnrollmentRepo) ListCourseIDsByStudent(ctx context.Context, studentID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int64
	for _, e := range r.s.enrollments {
		if e.StudentID == studentID {
			ids = append(ids, e.CourseID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeEnrollmentRepo) ListCoursesByStudent(ctx context.Context, studentID int64) ([]models.Course, error) {
	ids, _ := r.ListCourseIDsByStudent(ctx, studentID)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var courses []models.Course
	for _, id := range ids {
		if c, ok := r.s.courses[id]; ok {
			courses = append(courses, *c)
		}
	}
	return courses, nil
}

func (r *fakeEnrollmentRepo) ListStudentsByCourse(ctx context.Context, courseID int64) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var students []models.User
	for _, e := range r.s.enrollments {
		if e.CourseID == courseID {
			if u, ok := r.s.users[e.StudentID]; ok {
				students = append(students, *u)
			}
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

// testEnv wires the fakes, a real local storage under t.TempDir() and all
// services the way bootstrap does.
type testEnv struct {
	store       *memStore
	userRepo    *fakeUserRepo
	courseRepo  *fakeCourseRepo
	lessonRepo  *fakeLessonRepo
	fileRepo    *fakeFileRepo
	enrollRepo  *fakeEnrollmentRepo
	storage     *filestorage.LocalStorage
	authz       *appauth.AuthorizationService
	auth        *AuthService
	courses     CourseService
	enrollments EnrollmentService
	lessons     LessonService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	env := &testEnv{
		store:      store,
		userRepo:   &fakeUserRepo{s: store},
		courseRepo: &fakeCourseRepo{s: store},
		lessonRepo: &fakeLessonRepo{s: store},
		fileRepo:   &fakeFileRepo{s: store},
		enrollRepo: &fakeEnrollmentRepo{s: store},
	}

	storage, err := filestorage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	env.storage = storage

	env.authz = appauth.NewAuthorizationService(env.userRepo, env.courseRepo, env.lessonRepo)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})

	env.auth = NewAuthService(env.userRepo, jwtService, zerolog.Nop())
	env.courses = NewCourseService(env.courseRepo, env.lessonRepo, env.fileRepo, env.enrollRepo, env.authz, env.storage)
	env.enrollments = NewEnrollmentService(env.enrollRepo, env.courseRepo, env.authz)
	env.lessons = NewLessonService(env.lessonRepo, env.fileRepo, env.authz, env.storage)

	return env
}

func (env *testEnv) addUser(t *testing.T, name, email string, role models.Role) int64 {
	t.Helper()
	id, err := env.userRepo.CreateUser(context.Background(), &models.User{
		Name:     name,
		Email:    email,
		Password: "$2a$12$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("addUser %s: %v", email, err)
	}
	return id
}

func (env *testEnv) addCourse(t *testing.T, title string, teacherID int64) int64 {
	t.Helper()
	id, err := env.courseRepo.Create(context.Background(), &models.Course{
		Title:     title,
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("addCourse %s: %v", title, err)
	}
	return id
}

func (env *testEnv) addLesson(t *testing.T, title string, courseID int64) int64 {
	t.Helper()
	id, err := env.lessonRepo.Create(context.Background(), &models.Lesson{
		Title:    title,
		CourseID: courseID,
	})
	if err != nil {
		t.Fatalf("addLesson %s: %v", title, err)
	}
	return id
}

// makeFileHeader builds a real multipart.FileHeader the way gin hands one to
// the service.
func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	headers := form.File["file"]
	if len(headers) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(headers))
	}
	return headers[0]
}
