package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"taskman/internal/service"
)

// FakeAPI is an httptest server speaking the task manager REST API.
// Tokens are HS256 JWTs whose "sub" claim is {"username": ...}.
type FakeAPI struct {
	Server *httptest.Server

	// RequireAuth makes the task routes reject requests without a valid
	// bearer token. Defaults to true.
	RequireAuth bool

	secret []byte

	mu          sync.Mutex
	users       map[string][]byte // username -> bcrypt hash
	emails      map[string]string
	tasks       []service.Task
	nextID      int
	authHeaders []string
	failures    map[string]int // route name -> status code
	tokens      map[string]string
}

// Route names accepted by Fail.
const (
	RouteLogin      = "login"
	RouteRegister   = "register"
	RouteListTasks  = "list"
	RouteGetTask    = "get"
	RouteCreateTask = "create"
	RouteUpdateTask = "update"
	RouteDeleteTask = "delete"
)

// NewFakeAPI starts a FakeAPI. The server is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		RequireAuth: true,
		secret:      []byte("test-secret"),
		users:       make(map[string][]byte),
		emails:      make(map[string]string),
		nextID:      1,
		failures:    make(map[string]int),
		tokens:      make(map[string]string),
	}

	r := mux.NewRouter()
	r.HandleFunc("/login", f.handle(RouteLogin, false, f.login)).Methods(http.MethodPost)
	r.HandleFunc("/register", f.handle(RouteRegister, false, f.register)).Methods(http.MethodPost)
	r.HandleFunc("/tasks", f.handle(RouteListTasks, true, f.listTasks)).Methods(http.MethodGet)
	r.HandleFunc("/tasks", f.handle(RouteCreateTask, true, f.createTask)).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id:[0-9]+}", f.handle(RouteGetTask, true, f.getTask)).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id:[0-9]+}", f.handle(RouteUpdateTask, true, f.updateTask)).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id:[0-9]+}", f.handle(RouteDeleteTask, true, f.deleteTask)).Methods(http.MethodDelete)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the server base URL.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// AddUser registers a user directly.
func (f *FakeAPI) AddUser(username, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = hash
}

// HasUser reports whether username is registered.
func (f *FakeAPI) HasUser(username string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[username]
	return ok
}

// Email returns the email a user registered with.
func (f *FakeAPI) Email(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emails[username]
}

// AddTask stores a task with the given ID.
func (f *FakeAPI) AddTask(id int, title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Description: description})
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

// Tasks returns a copy of the stored tasks.
func (f *FakeAPI) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Fail makes every request to route answer with status until cleared
// with status 0.
func (f *FakeAPI) Fail(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, route)
		return
	}
	f.failures[route] = status
}

// AuthHeaders returns the Authorization header of every request received, in order.
func (f *FakeAPI) AuthHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.authHeaders))
	copy(out, f.authHeaders)
	return out
}

// LastAuthHeader returns the Authorization header of the latest request.
func (f *FakeAPI) LastAuthHeader() string {
	h := f.AuthHeaders()
	if len(h) == 0 {
		return ""
	}
	return h[len(h)-1]
}

// SetToken makes the next logins for username return token verbatim.
func (f *FakeAPI) SetToken(username, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[username] = token
}

// Mint signs a token for username the way the API does.
func (f *FakeAPI) Mint(username string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"fresh": false,
		"iat":   now.Unix(),
		"jti":   uuid.NewString(),
		"type":  "access",
		"sub":   map[string]any{"username": username},
		"nbf":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (f *FakeAPI) handle(route string, protected bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		status := f.failures[route]
		f.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"message": "injected failure"})
			return
		}
		if protected && f.RequireAuth && !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Missing Authorization Header"})
			return
		}
		next(w, r)
	}
}

func (f *FakeAPI) authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (any, error) {
		return f.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil && tok.Valid
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}

	f.mu.Lock()
	hash, ok := f.users[req.Username]
	token, fixed := f.tokens[req.Username]
	f.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	if !fixed {
		token = f.Mint(req.Username)
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var req service.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "username and password are required"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	f.users[req.Username] = hash
	f.emails[req.Username] = req.Email
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

func (f *FakeAPI) listTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, f.Tasks())
}

func (f *FakeAPI) getTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found!"})
}

func (f *FakeAPI) createTask(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Title and description are required!"})
		return
	}

	f.mu.Lock()
	task := service.Task{ID: f.nextID, Title: in.Title, Description: in.Description}
	f.nextID++
	f.tasks = append(f.tasks, task)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Task created.", "task": task})
}

func (f *FakeAPI) updateTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var in service.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Completed == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Title, description, and completed status are required!"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = service.Task{ID: id, Title: in.Title, Description: in.Description, Completed: *in.Completed}
			writeJSON(w, http.StatusOK, map[string]string{"message": "Task updated!"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found!"})
}

func (f *FakeAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted."})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found!"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
