// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	_ "github.com/lib/pq"

	"github.com/entradalive/entrada/models"
	"github.com/entradalive/entrada/testutil"
)

func TestCreateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.User)
	}{
		{
			name: "valid signup with RUT",
			requestBody: models.CreateUserRequest{
				Email:    "ana@example.cl",
				Name:     "Ana",
				LastName: "Pérez",
				Rut:      "12.345.678-5",
				Password: "secret123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.User) {
				if resp.ID == 0 {
					t.Error("Expected non-zero user id")
				}
				if resp.Email != "ana@example.cl" {
					t.Errorf("Expected email 'ana@example.cl', got '%s'", resp.Email)
				}
				// RUT is stored normalized
				if resp.Rut != "123456785" {
					t.Errorf("Expected normalized RUT '123456785', got '%s'", resp.Rut)
				}

				// Password hash never leaves the database
				var hash string
				err := db.QueryRow("SELECT password_hash FROM users WHERE id = $1", resp.ID).Scan(&hash)
				if err != nil {
					t.Fatalf("Failed to query user: %v", err)
				}
				if hash == "" || hash == "secret123" {
					t.Error("Expected bcrypt hash in database, not empty or plaintext")
				}
			},
		},
		{
			name: "valid signup without RUT",
			requestBody: models.CreateUserRequest{
				Email:    "sinrut@example.cl",
				Name:     "Sin",
				LastName: "Rut",
				Password: "secret123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "invalid RUT check digit",
			requestBody: models.CreateUserRequest{
				Email:    "malo@example.cl",
				Name:     "Malo",
				LastName: "Rut",
				Rut:      "12.345.678-9",
				Password: "secret123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing email",
			requestBody: models.CreateUserRequest{
				Name:     "Ana",
				Password: "secret123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "short password",
			requestBody: models.CreateUserRequest{
				Email:    "corta@example.cl",
				Name:     "Corta",
				Password: "abc",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			var err error

			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatalf("Failed to marshal request body: %v", err)
				}
			}

			req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateUser(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.User
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	testutil.CreateTestUser(t, db, "dup@example.cl", "")

	body, _ := json.Marshal(models.CreateUserRequest{
		Email:    "dup@example.cl",
		Name:     "Dup",
		LastName: "Licate",
		Password: "secret123",
	})
	req := httptest.NewRequest("POST", "/api/users", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.CreateUser(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate email, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	// testutil users have password "password123"
	userID := testutil.CreateTestUser(t, db, "login@example.cl", "12345678")

	t.Run("valid credentials", func(t *testing.T) {
		body, _ := json.Marshal(models.LoginRequest{
			Email:    "login@example.cl",
			Password: "password123",
		})
		req := httptest.NewRequest("POST", "/api/users/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
		}

		var resp models.LoginResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.SessionToken == "" {
			t.Error("Expected non-empty session token")
		}
		if resp.User.ID != userID {
			t.Errorf("Expected user id %d, got %d", userID, resp.User.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		body, _ := json.Marshal(models.LoginRequest{
			Email:    "login@example.cl",
			Password: "wrong-password",
		})
		req := httptest.NewRequest("POST", "/api/users/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		body, _ := json.Marshal(models.LoginRequest{
			Email:    "nadie@example.cl",
			Password: "password123",
		})
		req := httptest.NewRequest("POST", "/api/users/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		// Same status as wrong password so existence doesn't leak
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})
}

func TestGetUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	userID := testutil.CreateTestUser(t, db, "get@example.cl", "12345678")

	t.Run("existing user", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/users/1", nil)
		req.SetPathValue("id", strconv.Itoa(userID))
		w := httptest.NewRecorder()

		handler.GetUser(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
		}

		var resp models.User
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Email != "get@example.cl" {
			t.Errorf("Expected email 'get@example.cl', got '%s'", resp.Email)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/users/999999", nil)
		req.SetPathValue("id", "999999")
		w := httptest.NewRecorder()

		handler.GetUser(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/users/abc", nil)
		req.SetPathValue("id", "abc")
		w := httptest.NewRecorder()

		handler.GetUser(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestGetUserByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	testutil.CreateTestUser(t, db, "byemail@example.cl", "")

	req := httptest.NewRequest("GET", "/api/users/email/byemail@example.cl", nil)
	req.SetPathValue("email", "byemail@example.cl")
	w := httptest.NewRecorder()

	handler.GetUserByEmail(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp models.User
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Email != "byemail@example.cl" {
		t.Errorf("Expected email 'byemail@example.cl', got '%s'", resp.Email)
	}
}

func TestListUsers_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	for i := 0; i < 15; i++ {
		testutil.CreateTestUser(t, db, "user"+strconv.Itoa(i)+"@example.cl", "")
	}

	req := httptest.NewRequest("GET", "/api/users?page=2&perPage=10", nil)
	w := httptest.NewRecorder()

	handler.ListUsers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp models.ListUsersResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp.Users) != 5 {
		t.Errorf("Expected 5 users on page 2, got %d", len(resp.Users))
	}
	if resp.Pagination.Total != 15 {
		t.Errorf("Expected total 15, got %d", resp.Pagination.Total)
	}
	if resp.Pagination.Pages != 2 {
		t.Errorf("Expected 2 pages, got %d", resp.Pagination.Pages)
	}
	if resp.Pagination.HasNext {
		t.Error("Expected HasNext=false on last page")
	}
	if !resp.Pagination.HasPrev {
		t.Error("Expected HasPrev=true on page 2")
	}
}
