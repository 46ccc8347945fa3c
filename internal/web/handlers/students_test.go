package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

func TestStudentsHandler_Register(t *testing.T) {
	det := newFakeDetector()
	session := attendance.NewSession("s1", det, attendance.DefaultOptions())
	portrait := []byte("alice portrait")
	det.on(portrait, facematch.Descriptor{0, 0})

	req := multipartRequest(t, "POST", "/api/v1/sessions/s1/students", map[string]string{"name": "  Alice "}, portrait)
	recorder := httptest.NewRecorder()
	NewStudentsHandler().Register(recorder, requestWithSession(req, session))

	assertStatusCode(t, recorder, http.StatusCreated)
	var result StudentResponse
	parseJSONResponse(t, recorder, &result)
	if result.Name != "Alice" || result.Count != 1 {
		t.Errorf("unexpected response %+v", result)
	}
	if students := session.Students(); len(students) != 1 || students[0] != "Alice" {
		t.Errorf("unexpected roster %v", students)
	}
}

func TestStudentsHandler_RegisterErrors(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		file       []byte
		faces      []facematch.Descriptor
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing file",
			fields:     map[string]string{"name": "Alice"},
			wantStatus: http.StatusBadRequest,
			wantError:  errMissingFile,
		},
		{
			name:       "missing name",
			fields:     map[string]string{},
			file:       []byte("portrait"),
			faces:      []facematch.Descriptor{{0, 0}},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid input: student name is required",
		},
		{
			name:       "no face",
			fields:     map[string]string{"name": "Alice"},
			file:       []byte("empty room"),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "no face detected",
		},
		{
			name:       "two faces",
			fields:     map[string]string{"name": "Alice"},
			file:       []byte("two people"),
			faces:      []facematch.Descriptor{{0, 0}, {1, 1}},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "expected exactly one face, found 2",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			det := newFakeDetector()
			if tc.file != nil && len(tc.faces) > 0 {
				det.on(tc.file, tc.faces...)
			}
			session := attendance.NewSession("s1", det, attendance.DefaultOptions())

			req := multipartRequest(t, "POST", "/api/v1/sessions/s1/students", tc.fields, tc.file)
			recorder := httptest.NewRecorder()
			NewStudentsHandler().Register(recorder, requestWithSession(req, session))

			assertStatusCode(t, recorder, tc.wantStatus)
			assertJSONError(t, recorder, tc.wantError)
			if len(session.Students()) != 0 {
				t.Errorf("failed registration changed the roster: %v", session.Students())
			}
		})
	}
}

func TestStudentsHandler_List(t *testing.T) {
	det := newFakeDetector()
	session := attendance.NewSession("s1", det, attendance.DefaultOptions())
	registerStudent(t, det, session, "Bob", facematch.Descriptor{5, 0})
	registerStudent(t, det, session, "Alice", facematch.Descriptor{0, 0})

	recorder := httptest.NewRecorder()
	req := requestWithSession(httptest.NewRequest("GET", "/api/v1/sessions/s1/students", nil), session)
	NewStudentsHandler().List(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	var result StudentsResponse
	parseJSONResponse(t, recorder, &result)
	if result.Count != 2 || result.Students[0] != "Bob" || result.Students[1] != "Alice" {
		t.Errorf("expected registration order [Bob Alice], got %+v", result)
	}
}

func TestStudentsHandler_Remove(t *testing.T) {
	det := newFakeDetector()
	session := attendance.NewSession("s1", det, attendance.DefaultOptions())
	registerStudent(t, det, session, "Alice", facematch.Descriptor{0, 0})
	registerStudent(t, det, session, "Bob", facematch.Descriptor{5, 0})

	remove := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", target, nil)
		req = requestWithChiParams(req, map[string]string{"sessionId": "s1", "name": "Alice"})
		req = requestWithSession(req, session)
		recorder := httptest.NewRecorder()
		NewStudentsHandler().Remove(recorder, req)
		return recorder
	}

	recorder := remove("/api/v1/sessions/s1/students/Alice")
	assertStatusCode(t, recorder, http.StatusBadRequest)
	if len(session.Students()) != 2 {
		t.Fatal("unconfirmed removal must not change the roster")
	}

	recorder = remove("/api/v1/sessions/s1/students/Alice?confirm=true")
	assertStatusCode(t, recorder, http.StatusOK)
	var result StudentResponse
	parseJSONResponse(t, recorder, &result)
	if !result.Removed || result.Count != 1 {
		t.Errorf("unexpected response %+v", result)
	}

	recorder = remove("/api/v1/sessions/s1/students/Alice?confirm=true")
	assertStatusCode(t, recorder, http.StatusOK)
	var again StudentResponse
	parseJSONResponse(t, recorder, &again)
	if again.Removed || again.Count != 1 || again.Name != "Alice" {
		t.Errorf("expected no-op removal keeping 1 student, got %+v", again)
	}
	if len(session.Students()) != 1 {
		t.Errorf("expected roster of 1 after no-op removal, got %v", session.Students())
	}
}

func TestStudentsHandler_RegisterCapabilityNotReady(t *testing.T) {
	det := newFakeDetector()
	det.readyErr = context.DeadlineExceeded
	session := attendance.NewSession("s1", det, attendance.DefaultOptions())

	req := multipartRequest(t, "POST", "/api/v1/sessions/s1/students", map[string]string{"name": "Alice"}, []byte("p"))
	recorder := httptest.NewRecorder()
	NewStudentsHandler().Register(recorder, requestWithSession(req, session))

	assertStatusCode(t, recorder, http.StatusBadGateway)
}
