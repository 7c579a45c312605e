package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Salvatore112/pvz-task/internal/auth"
	"github.com/Salvatore112/pvz-task/internal/config"
	"github.com/Salvatore112/pvz-task/internal/mocks"
	"github.com/Salvatore112/pvz-task/internal/models"
	"github.com/Salvatore112/pvz-task/internal/storage"
	"github.com/Salvatore112/pvz-task/internal/storage/drivers"
)

func setupTest(t *testing.T) (*Server, *mocks.MockStorage) {
	ctrl := gomock.NewController(t)
	mockStorage := mocks.NewMockStorage(ctrl)

	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard

	srv := NewServer(ServerOpts{
		Storage: mockStorage,
		Config:  config.Config{},
	})

	srv.SetupRoutes()

	return srv, mockStorage
}

// authAs registers a token resolving to a fresh account with the role.
func authAs(mockStorage *mocks.MockStorage, role auth.Role) string {
	token := auth.NewToken()
	user := &models.User{ID: uuid.NewString(), Role: string(role)}
	mockStorage.EXPECT().
		GetUserByToken(gomock.Any(), token).
		Return(user, nil).
		AnyTimes()
	return token
}

func performRequest(srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestDummyLogin(t *testing.T) {
	srv, mockStorage := setupTest(t)

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"Valid employee", "employee", http.StatusOK},
		{"Valid moderator", "moderator", http.StatusOK},
		{"Invalid role", "admin", http.StatusBadRequest},
		{"Empty role", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantStatus == http.StatusOK {
				mockStorage.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)
				mockStorage.EXPECT().SaveToken(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			w := performRequest(srv, "POST", "/dummyLogin", "", map[string]string{"role": tt.role})
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp["token"])
			}
		})
	}
}

func TestRegister(t *testing.T) {
	srv, mockStorage := setupTest(t)

	t.Run("Success", func(t *testing.T) {
		mockStorage.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)

		w := performRequest(srv, "POST", "/register", "", map[string]string{
			"email":    "new@example.com",
			"password": "password123",
			"role":     "employee",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "new@example.com", resp["email"])
		assert.Equal(t, "employee", resp["role"])
		assert.NotEmpty(t, resp["id"])
	})

	t.Run("Duplicate email", func(t *testing.T) {
		mockStorage.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(drivers.ErrDuplicateEmail)

		w := performRequest(srv, "POST", "/register", "", map[string]string{
			"email":    "new@example.com",
			"password": "password123",
			"role":     "employee",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid role", func(t *testing.T) {
		w := performRequest(srv, "POST", "/register", "", map[string]string{
			"email":    "other@example.com",
			"password": "password123",
			"role":     "admin",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid email", func(t *testing.T) {
		w := performRequest(srv, "POST", "/register", "", map[string]string{
			"email":    "not-an-email",
			"password": "password123",
			"role":     "employee",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	srv, mockStorage := setupTest(t)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    "user@example.com",
		Password: hash,
		Role:     "employee",
	}

	t.Run("Success", func(t *testing.T) {
		mockStorage.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(user, nil)
		mockStorage.EXPECT().SaveToken(gomock.Any(), gomock.Any(), user.ID).Return(nil)

		w := performRequest(srv, "POST", "/login", "", map[string]string{
			"email":    user.Email,
			"password": "password123",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["token"])
	})

	t.Run("Wrong password", func(t *testing.T) {
		mockStorage.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(user, nil)

		w := performRequest(srv, "POST", "/login", "", map[string]string{
			"email":    user.Email,
			"password": "wrong-password",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Unknown email", func(t *testing.T) {
		mockStorage.EXPECT().
			GetUserByEmail(gomock.Any(), "ghost@example.com").
			Return(nil, drivers.ErrNotFound)

		w := performRequest(srv, "POST", "/login", "", map[string]string{
			"email":    "ghost@example.com",
			"password": "password123",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCreatePVZ(t *testing.T) {
	srv, mockStorage := setupTest(t)

	moderatorToken := authAs(mockStorage, auth.RoleModerator)
	employeeToken := authAs(mockStorage, auth.RoleEmployee)

	t.Run("Success", func(t *testing.T) {
		mockStorage.EXPECT().CreatePVZ(gomock.Any(), gomock.Any()).Return(nil)

		w := performRequest(srv, "POST", "/pvz", moderatorToken, map[string]string{"city": "Казань"})
		assert.Equal(t, http.StatusCreated, w.Code)

		var pvz models.PVZ
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pvz))
		assert.Equal(t, "Казань", pvz.City)
		assert.NotEmpty(t, pvz.ID)
		assert.False(t, pvz.RegistrationDate.IsZero())
	})

	t.Run("Forbidden for employee", func(t *testing.T) {
		w := performRequest(srv, "POST", "/pvz", employeeToken, map[string]string{"city": "Казань"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Invalid city", func(t *testing.T) {
		w := performRequest(srv, "POST", "/pvz", moderatorToken, map[string]string{"city": "Новосибирск"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("No token", func(t *testing.T) {
		w := performRequest(srv, "POST", "/pvz", "", map[string]string{"city": "Казань"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Unknown token", func(t *testing.T) {
		mockStorage.EXPECT().
			GetUserByToken(gomock.Any(), "bad-token").
			Return(nil, drivers.ErrNotFound)

		w := performRequest(srv, "POST", "/pvz", "bad-token", map[string]string{"city": "Казань"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetPVZs(t *testing.T) {
	srv, mockStorage := setupTest(t)

	moderatorToken := authAs(mockStorage, auth.RoleModerator)
	employeeToken := authAs(mockStorage, auth.RoleEmployee)

	t.Run("Defaults applied", func(t *testing.T) {
		mockStorage.EXPECT().
			ListPVZs(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, filter models.PVZFilter) ([]*models.PVZListItem, error) {
				assert.Equal(t, 1, filter.Page)
				assert.Equal(t, 10, filter.Limit)
				return []*models.PVZListItem{}, nil
			})

		w := performRequest(srv, "GET", "/pvz", employeeToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Moderator allowed", func(t *testing.T) {
		mockStorage.EXPECT().
			ListPVZs(gomock.Any(), gomock.Any()).
			Return([]*models.PVZListItem{}, nil)

		w := performRequest(srv, "GET", "/pvz?page=2&limit=30", moderatorToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Limit above maximum", func(t *testing.T) {
		w := performRequest(srv, "GET", "/pvz?limit=31", employeeToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Page below minimum", func(t *testing.T) {
		w := performRequest(srv, "GET", "/pvz?page=-1&limit=5", employeeToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateReception(t *testing.T) {
	srv, mockStorage := setupTest(t)

	moderatorToken := authAs(mockStorage, auth.RoleModerator)
	employeeToken := authAs(mockStorage, auth.RoleEmployee)

	pvzID := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		mockStorage.EXPECT().CreateReception(gomock.Any(), gomock.Any()).Return(nil)

		w := performRequest(srv, "POST", "/receptions", employeeToken, map[string]string{"pvzId": pvzID})
		assert.Equal(t, http.StatusCreated, w.Code)

		var reception models.Reception
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reception))
		assert.Equal(t, models.ReceptionInProgress, reception.Status)
		assert.Equal(t, pvzID, reception.PVZID)
	})

	t.Run("Conflict on open reception", func(t *testing.T) {
		mockStorage.EXPECT().
			CreateReception(gomock.Any(), gomock.Any()).
			Return(drivers.ErrOpenReceptionExists)

		w := performRequest(srv, "POST", "/receptions", employeeToken, map[string]string{"pvzId": pvzID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown pvz", func(t *testing.T) {
		mockStorage.EXPECT().
			CreateReception(gomock.Any(), gomock.Any()).
			Return(drivers.ErrNotFound)

		w := performRequest(srv, "POST", "/receptions", employeeToken, map[string]string{"pvzId": pvzID})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Forbidden for moderator", func(t *testing.T) {
		w := performRequest(srv, "POST", "/receptions", moderatorToken, map[string]string{"pvzId": pvzID})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAddProduct(t *testing.T) {
	srv, mockStorage := setupTest(t)

	employeeToken := authAs(mockStorage, auth.RoleEmployee)
	pvzID := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		mockStorage.EXPECT().
			AddProduct(gomock.Any(), pvzID, gomock.Any()).
			Return(nil)

		w := performRequest(srv, "POST", "/products", employeeToken, map[string]string{
			"type":  "электроника",
			"pvzId": pvzID,
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var product models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
		assert.Equal(t, "электроника", product.Type)
	})

	t.Run("Invalid product type", func(t *testing.T) {
		w := performRequest(srv, "POST", "/products", employeeToken, map[string]string{
			"type":  "мебель",
			"pvzId": pvzID,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("No open reception", func(t *testing.T) {
		mockStorage.EXPECT().
			AddProduct(gomock.Any(), pvzID, gomock.Any()).
			Return(drivers.ErrNoOpenReception)

		w := performRequest(srv, "POST", "/products", employeeToken, map[string]string{
			"type":  "обувь",
			"pvzId": pvzID,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown pvz", func(t *testing.T) {
		mockStorage.EXPECT().
			AddProduct(gomock.Any(), pvzID, gomock.Any()).
			Return(drivers.ErrNotFound)

		w := performRequest(srv, "POST", "/products", employeeToken, map[string]string{
			"type":  "обувь",
			"pvzId": pvzID,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCloseLastReception(t *testing.T) {
	srv, mockStorage := setupTest(t)

	employeeToken := authAs(mockStorage, auth.RoleEmployee)
	pvzID := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		closed := &models.Reception{
			ID:       uuid.NewString(),
			DateTime: time.Now(),
			PVZID:    pvzID,
			Status:   models.ReceptionClosed,
		}
		mockStorage.EXPECT().CloseReception(gomock.Any(), pvzID).Return(closed, nil)

		w := performRequest(srv, "POST", "/pvz/"+pvzID+"/close_last_reception", employeeToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var reception models.Reception
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reception))
		assert.Equal(t, models.ReceptionClosed, reception.Status)
	})

	t.Run("No open reception", func(t *testing.T) {
		mockStorage.EXPECT().
			CloseReception(gomock.Any(), pvzID).
			Return(nil, drivers.ErrNoOpenReception)

		w := performRequest(srv, "POST", "/pvz/"+pvzID+"/close_last_reception", employeeToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown pvz", func(t *testing.T) {
		mockStorage.EXPECT().
			CloseReception(gomock.Any(), pvzID).
			Return(nil, drivers.ErrNotFound)

		w := performRequest(srv, "POST", "/pvz/"+pvzID+"/close_last_reception", employeeToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid pvz id", func(t *testing.T) {
		w := performRequest(srv, "POST", "/pvz/not-a-uuid/close_last_reception", employeeToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteLastProduct(t *testing.T) {
	srv, mockStorage := setupTest(t)

	employeeToken := authAs(mockStorage, auth.RoleEmployee)
	pvzID := uuid.NewString()

	t.Run("Success", func(t *testing.T) {
		product := &models.Product{
			ID:       uuid.NewString(),
			DateTime: time.Now(),
			Type:     "обувь",
		}
		mockStorage.EXPECT().DeleteLastProduct(gomock.Any(), pvzID).Return(product, nil)

		w := performRequest(srv, "POST", "/pvz/"+pvzID+"/delete_last_product", employeeToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Message string         `json:"message"`
			Product models.Product `json:"product"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, product.ID, resp.Product.ID)
	})

	t.Run("No products", func(t *testing.T) {
		mockStorage.EXPECT().
			DeleteLastProduct(gomock.Any(), pvzID).
			Return(nil, drivers.ErrNoProducts)

		w := performRequest(srv, "POST", "/pvz/"+pvzID+"/delete_last_product", employeeToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestPVZLifecycle runs the whole flow against the real memory driver.
func TestPVZLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard

	store := storage.NewStorage(storage.StorageOpts{DriverType: config.MemoryDriverType})
	require.NotNil(t, store)

	srv := NewServer(ServerOpts{Storage: store, Config: config.Config{}})
	srv.SetupRoutes()

	getToken := func(t *testing.T, role string) string {
		w := performRequest(srv, "POST", "/dummyLogin", "", map[string]string{"role": role})
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp["token"]
	}

	moderatorToken := getToken(t, "moderator")
	employeeToken := getToken(t, "employee")

	// Moderator creates a PVZ in Казань
	w := performRequest(srv, "POST", "/pvz", moderatorToken, map[string]string{"city": "Казань"})
	require.Equal(t, http.StatusCreated, w.Code)

	var pvz models.PVZ
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pvz))

	// Employee opens a reception
	w = performRequest(srv, "POST", "/receptions", employeeToken, map[string]string{"pvzId": pvz.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	var reception models.Reception
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reception))
	assert.Equal(t, models.ReceptionInProgress, reception.Status)

	// Second open conflicts
	w = performRequest(srv, "POST", "/receptions", employeeToken, map[string]string{"pvzId": pvz.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 50 alternating products
	types := []string{"электроника", "одежда"}
	for i := 0; i < 50; i++ {
		w = performRequest(srv, "POST", "/products", employeeToken, map[string]string{
			"type":  types[i%2],
			"pvzId": pvz.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code, fmt.Sprintf("product %d", i))
	}

	// Listing shows all 50 under the reception
	w = performRequest(srv, "GET", "/pvz", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []*models.PVZListItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Len(t, items[0].Receptions, 1)
	assert.Len(t, items[0].Receptions[0].Products, 50)

	// Close the reception
	w = performRequest(srv, "POST", "/pvz/"+pvz.ID+"/close_last_reception", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var closed models.Reception
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &closed))
	assert.Equal(t, models.ReceptionClosed, closed.Status)

	// Mutations after close fail
	w = performRequest(srv, "POST", "/products", employeeToken, map[string]string{
		"type":  "обувь",
		"pvzId": pvz.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(srv, "POST", "/pvz/"+pvz.ID+"/delete_last_product", employeeToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
