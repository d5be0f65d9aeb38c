package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hoaconnect/hoa-services-app/db"
	"github.com/hoaconnect/hoa-services-app/middleware"
	"github.com/hoaconnect/hoa-services-app/models"
)

// setupTestDB points the global connection at a fresh in-memory database.
// A single open connection keeps every query on the same sqlite instance.
func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.UserDocument{},
		&models.Apartment{},
		&models.House{},
		&models.Service{},
		&models.ServiceProvider{},
		&models.ServiceRate{},
		&models.ProviderLocation{},
		&models.Job{},
		&models.Bid{},
	))

	db.DB = gdb
	t.Cleanup(func() {
		sqlDB.Close()
		db.DB = nil
	})
}

// as attaches a fixed principal, standing in for the JWT middleware.
func as(p middleware.Principal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("principal", p)
		return c.Next()
	}
}

func userPrincipal(u *models.User) middleware.Principal {
	return middleware.Principal{ID: u.ID, Role: u.Role, Type: "user"}
}

func providerPrincipal(p *models.ServiceProvider) middleware.Principal {
	return middleware.Principal{ID: p.ID, Role: models.RoleServiceProvider, Type: "serviceProvider"}
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	resp.Body.Close()
}

// Fixtures

func createLeader(t *testing.T, nationalID string) *models.User {
	t.Helper()
	u := &models.User{
		NationalID: nationalID,
		Password:   "hashed",
		Role:       models.RoleLeader,
	}
	require.NoError(t, db.DB.Create(u).Error)
	return u
}

func createHomeOwner(t *testing.T, nationalID string, apartmentID *uint) *models.User {
	t.Helper()
	u := &models.User{
		NationalID:  nationalID,
		Password:    "hashed",
		Role:        models.RoleHomeOwner,
		ApartmentID: apartmentID,
	}
	require.NoError(t, db.DB.Create(u).Error)
	return u
}

func createApartment(t *testing.T, hoaNumber string, leaderID *uint) *models.Apartment {
	t.Helper()
	a := &models.Apartment{
		HOANumber: hoaNumber,
		Name:      models.Translation{En: "Apartment " + hoaNumber},
		City:      models.Translation{En: "Riyadh"},
		Country:   models.Translation{En: "Saudi Arabia"},
		LeaderID:  leaderID,
	}
	require.NoError(t, db.DB.Create(a).Error)
	return a
}

func createTestService(t *testing.T, name string) *models.Service {
	t.Helper()
	s := &models.Service{
		Name: models.Translation{En: name},
	}
	require.NoError(t, db.DB.Create(s).Error)
	return s
}

func createProvider(t *testing.T, email string, active bool, services ...models.Service) *models.ServiceProvider {
	t.Helper()
	p := &models.ServiceProvider{
		Name:       models.Translation{En: "Provider " + email},
		Email:      email,
		SignupStep: models.ProviderStepBankDetails,
		IsActive:   active,
		Services:   services,
	}
	require.NoError(t, db.DB.Create(p).Error)
	return p
}

func createTestJob(t *testing.T, job *models.Job) *models.Job {
	t.Helper()
	if job.Title.IsEmpty() {
		job.Title = models.Translation{En: "Fix the lobby AC"}
	}
	if job.Description.IsEmpty() {
		job.Description = models.Translation{En: "The AC has been leaking for a week"}
	}
	require.NoError(t, db.DB.Create(job).Error)
	return job
}
