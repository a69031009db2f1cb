package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medibook/config"
	"medibook/internal/delivery/http/handler"
	"medibook/internal/delivery/http/middleware"
	"medibook/internal/domain/entity"
	repoImpl "medibook/internal/repository"
	"medibook/internal/service"
	"medibook/internal/testutil"
	"medibook/internal/usecase"
	"medibook/pkg/jwt"
	"medibook/pkg/llm"
	"medibook/pkg/validator"

	"github.com/sirupsen/logrus"
)

type testServer struct {
	url           string
	doctor        *entity.Doctor
	doctorToken   string
	patientToken  string
	patient2Token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	clock := &usecase.Clock{Now: func() time.Time { return time.Date(2030, time.January, 1, 10, 0, 0, 0, time.UTC) }, Location: time.UTC}
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	v := validator.NewValidator()

	profileRepo := repoImpl.NewProfileRepository()
	doctorRepo := repoImpl.NewDoctorRepository()
	appointmentRepo := repoImpl.NewAppointmentRepository()
	notificationRepo := repoImpl.NewNotificationRepository()
	auditRepo := repoImpl.NewAuditLogRepository()

	hub := service.NewLocalHub()
	auditService := service.NewAuditService(db, log, auditRepo)
	dispatcher := service.NewNotificationDispatcher(db, log, notificationRepo, profileRepo, hub)

	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, repoImpl.NewAvailabilityRuleRepository(), doctorRepo, appointmentRepo, auditService, clock)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, doctorRepo, availabilityUsecase, dispatcher, auditService, clock, time.Second)

	router := NewRouter(
		handler.NewHealthHandler(db, nil),
		handler.NewSessionHandler(usecase.NewSessionUsecase(db, log, profileRepo, nil, jwtService)),
		handler.NewDoctorHandler(usecase.NewDoctorUsecase(db, log, doctorRepo, auditService), availabilityUsecase, v),
		handler.NewAvailabilityHandler(availabilityUsecase, v),
		handler.NewAppointmentHandler(appointmentUsecase, v),
		handler.NewNotificationHandler(usecase.NewNotificationUsecase(db, log, notificationRepo, hub), log),
		handler.NewChatHandler(usecase.NewChatUsecase(db, log, profileRepo, llm.NewFromConfig(config.LLMConfig{})), v),
		handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(db, log, auditRepo)),
		middleware.NewAuthMiddleware(jwtService, nil),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
	)

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)

	doctor := testutil.CreateDoctor(t, db, "Grace Hopper", "Cardiology")
	testutil.CreateRule(t, db, doctor.ID, time.Monday, entity.NewTimeOfDay(9, 0), entity.NewTimeOfDay(12, 0))
	patient := testutil.CreatePatient(t, db, "Alan Turing")
	patient2 := testutil.CreatePatient(t, db, "Ada Lovelace")

	token := func(p *entity.Profile) string {
		s, err := jwtService.GenerateAccessToken(p.ID, string(p.Role))
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		return s
	}

	return &testServer{
		url:           srv.URL + "/api/v1",
		doctor:        doctor,
		doctorToken:   token(doctor.Profile),
		patientToken:  token(patient),
		patient2Token: token(patient2),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, s.url+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)

	if code, _ := s.do(t, http.MethodGet, "/health", "", nil); code != http.StatusOK {
		t.Errorf("health = %d", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/health/ready", "", nil); code != http.StatusOK {
		t.Errorf("ready = %d", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/doctors", "", nil); code != http.StatusUnauthorized {
		t.Errorf("doctors without token = %d, want 401", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/doctors", "garbage", nil); code != http.StatusUnauthorized {
		t.Errorf("doctors with bad token = %d, want 401", code)
	}
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	book := map[string]interface{}{
		"doctor_id":        s.doctor.ID,
		"date":             "2030-01-07",
		"time":             "10:00",
		"reason_for_visit": "checkup",
	}

	code, env := s.do(t, http.MethodPost, "/appointments", s.patientToken, book)
	if code != http.StatusCreated {
		t.Fatalf("book = %d %s", code, env.Message)
	}
	var result struct {
		Appointment struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"appointment"`
	}
	json.Unmarshal(env.Data, &result)
	if result.Appointment.Status != "scheduled" {
		t.Errorf("status = %q", result.Appointment.Status)
	}

	code, env = s.do(t, http.MethodPost, "/appointments", s.patient2Token, book)
	if code != http.StatusConflict || env.Message != "This time slot is no longer available. Please select another time." {
		t.Errorf("double book = %d %q", code, env.Message)
	}

	id := result.Appointment.ID
	if code, _ := s.do(t, http.MethodPost, "/appointments/"+id+"/confirm", s.patientToken, nil); code != http.StatusForbidden {
		t.Errorf("patient confirm = %d, want 403", code)
	}
	if code, _ := s.do(t, http.MethodGet, "/appointments/"+id, s.patient2Token, nil); code != http.StatusForbidden {
		t.Errorf("stranger get = %d, want 403", code)
	}
	if code, env := s.do(t, http.MethodPost, "/appointments/"+id+"/confirm", s.doctorToken, nil); code != http.StatusOK {
		t.Errorf("doctor confirm = %d %s", code, env.Message)
	}
	if code, _ := s.do(t, http.MethodPost, "/appointments/"+id+"/confirm", s.doctorToken, nil); code != http.StatusConflict {
		t.Errorf("second confirm = %d, want 409", code)
	}

	code, env = s.do(t, http.MethodGet, "/notifications/unread-count", s.patientToken, nil)
	if code != http.StatusOK {
		t.Fatalf("unread count = %d", code)
	}
	var count struct {
		Count int64 `json:"count"`
	}
	json.Unmarshal(env.Data, &count)
	if count.Count != 2 {
		t.Errorf("patient unread = %d, want booked + confirmed", count.Count)
	}
}

func TestBookingErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		token string
		body  map[string]interface{}
		want  int
	}{
		{"missing reason", s.patientToken, map[string]interface{}{"doctor_id": s.doctor.ID, "date": "2030-01-07", "time": "10:00"}, http.StatusBadRequest},
		{"bad date", s.patientToken, map[string]interface{}{"doctor_id": s.doctor.ID, "date": "07-01-2030", "time": "10:00", "reason_for_visit": "x"}, http.StatusBadRequest},
		{"outside hours", s.patientToken, map[string]interface{}{"doctor_id": s.doctor.ID, "date": "2030-01-07", "time": "15:00", "reason_for_visit": "x"}, http.StatusUnprocessableEntity},
		{"doctor cannot book", s.doctorToken, map[string]interface{}{"doctor_id": s.doctor.ID, "date": "2030-01-07", "time": "10:00", "reason_for_visit": "x"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, env := s.do(t, http.MethodPost, "/appointments", tt.token, tt.body); code != tt.want {
				t.Errorf("status = %d (%s), want %d", code, env.Message, tt.want)
			}
		})
	}
}

func TestSlotsAndAvailability(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/doctors/"+s.doctor.ID.String()+"/slots?date=2030-01-07", s.patientToken, nil)
	if code != http.StatusOK {
		t.Fatalf("slots = %d", code)
	}
	var slots struct {
		Bookable []string `json:"bookable"`
	}
	json.Unmarshal(env.Data, &slots)
	if len(slots.Bookable) != 6 {
		t.Errorf("bookable = %v", slots.Bookable)
	}

	rule := map[string]interface{}{"day_of_week": 1, "start_time": "11:00", "end_time": "13:00"}
	if code, _ := s.do(t, http.MethodPost, "/doctor/availability", s.patientToken, rule); code != http.StatusForbidden {
		t.Errorf("patient create rule = %d, want 403", code)
	}
	if code, _ := s.do(t, http.MethodPost, "/doctor/availability", s.doctorToken, rule); code != http.StatusConflict {
		t.Errorf("overlapping rule = %d, want 409", code)
	}
	rule["start_time"] = "12:00"
	if code, env := s.do(t, http.MethodPost, "/doctor/availability", s.doctorToken, rule); code != http.StatusCreated {
		t.Errorf("create rule = %d %s", code, env.Message)
	}
	if code, _ := s.do(t, http.MethodPost, "/doctor/availability", s.doctorToken, map[string]interface{}{"start_time": "12:00"}); code != http.StatusBadRequest {
		t.Errorf("invalid rule = %d, want 400", code)
	}
}

func TestChatWithoutProvider(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"messages": []map[string]string{{"role": "user", "content": "hello"}}}

	if code, _ := s.do(t, http.MethodPost, "/chat", s.patientToken, body); code != http.StatusServiceUnavailable {
		t.Errorf("chat = %d, want 503", code)
	}
}
