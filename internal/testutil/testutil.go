// Package testutil provides a per-test isolated postgres schema, a gin test
// router and request helpers shared by the handler and service tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	identityentity "github.com/NunoCastro30/TechFlow/internal/identity/entity"
	maintenanceentity "github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	"github.com/NunoCastro30/TechFlow/internal/middleware"
	ordersentity "github.com/NunoCastro30/TechFlow/internal/orders/entity"
	procurement "github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	productionentity "github.com/NunoCastro30/TechFlow/internal/production/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_techflow"
	JWTSecret  = "techflow-test-jwt-secret"
)

// projectRoot returns the project root directory by looking for go.mod.
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test
// schema. Each test gets an isolated schema that is dropped afterwards.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "techflow")
	password := getEnv("DB_PASSWORD", "techflow")
	dbname := getEnv("DB_NAME", "techflow")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// search_path in the DSN so every pooled connection uses the test schema.
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&identityentity.User{},
		&procurement.RawMaterial{},
		&procurement.Supplier{},
		&procurement.PurchaseRequest{},
		&procurement.PurchaseRequestItem{},
		&procurement.QuotationRequest{},
		&procurement.Budget{},
		&procurement.BudgetItem{},
		&procurement.OrderNote{},
		&procurement.OrderNoteItem{},
		&ordersentity.Client{},
		&ordersentity.Product{},
		&ordersentity.ProductMaterial{},
		&ordersentity.ClientOrder{},
		&ordersentity.ClientOrderItem{},
		&productionentity.ProductionOrder{},
		&productionentity.ProductionRecord{},
		&maintenanceentity.Machine{},
		&maintenanceentity.MaintenanceRequest{},
		&maintenanceentity.MaintenanceRecord{},
		&maintenanceentity.MaintenanceAttachment{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// GenerateTestToken creates a valid JWT for the test secret.
func GenerateTestToken(userID, name, role string) string {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: userID,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			ID:        fmt.Sprintf("test-jti-%d", now.UnixNano()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user.
func DefaultTestToken() string {
	return GenerateTestToken("test-user-001", "Test Admin", identityentity.RoleAdmin)
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedUser creates a user row.
func SeedUser(t *testing.T, db *gorm.DB, id, firstName, lastName, role string) *identityentity.User {
	t.Helper()
	user := &identityentity.User{
		ID:           id,
		StaffNumber:  int(time.Now().UnixNano() % 1000000),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
	return user
}

// SeedMaterial creates a raw material row with the given stock level.
func SeedMaterial(t *testing.T, db *gorm.DB, name string, quantity int) *procurement.RawMaterial {
	t.Helper()
	m := &procurement.RawMaterial{
		ID:       uuid.New().String()[:32],
		Code:     "MAT-" + uuid.New().String()[:8],
		Name:     name,
		Quantity: quantity,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to seed raw material: %v", err)
	}
	return m
}

// SeedSupplier creates a supplier row.
func SeedSupplier(t *testing.T, db *gorm.DB, name, email string) *procurement.Supplier {
	t.Helper()
	s := &procurement.Supplier{
		ID:    uuid.New().String()[:32],
		Code:  "SUP-" + uuid.New().String()[:8],
		Name:  name,
		Email: email,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}
	return s
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
