package employees

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/camachodev/puntoventa-backend/pkg/config"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
)

const profilesSchema = `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  branch_id TEXT,
  name TEXT NOT NULL,
  avatar_url TEXT,
  role TEXT NOT NULL DEFAULT 'seller',
  is_active INTEGER NOT NULL DEFAULT 1,
  pin_hash TEXT,
  created_at DATETIME
);`

func testPINConfig() config.PINConfig {
	return config.PINConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newEmployeesService(t *testing.T) (Service, uuid.UUID) {
	t.Helper()
	dsn := "file:employees_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(profilesSchema).Error)

	svc, err := NewService(NewRepository(conn), testPINConfig())
	require.NoError(t, err)
	return svc, uuid.New()
}

func TestCreateEmployeeAndVerifyPIN(t *testing.T) {
	svc, orgID := newEmployeesService(t)
	ctx := context.Background()

	dto, err := svc.CreateEmployee(ctx, orgID, CreateEmployeeInput{
		Name: "María López",
		Role: enums.UserRoleSeller,
		PIN:  "4821",
	})
	require.NoError(t, err)
	assert.True(t, dto.HasPIN)
	assert.True(t, dto.IsActive)

	verified, err := svc.VerifyPIN(ctx, orgID, dto.ID, "4821")
	require.NoError(t, err)
	assert.Equal(t, dto.ID, verified.ID)

	_, err = svc.VerifyPIN(ctx, orgID, dto.ID, "0000")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestVerifyPINRejectsInactiveEmployee(t *testing.T) {
	svc, orgID := newEmployeesService(t)
	ctx := context.Background()

	dto, err := svc.CreateEmployee(ctx, orgID, CreateEmployeeInput{
		Name: "Pedro",
		Role: enums.UserRoleManager,
		PIN:  "1234",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateEmployee(ctx, orgID, dto.ID))

	_, err = svc.VerifyPIN(ctx, orgID, dto.ID, "1234")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestVerifyPINRejectsEmployeeWithoutPIN(t *testing.T) {
	svc, orgID := newEmployeesService(t)
	ctx := context.Background()

	dto, err := svc.CreateEmployee(ctx, orgID, CreateEmployeeInput{
		Name: "Sin PIN",
		Role: enums.UserRoleInventory,
	})
	require.NoError(t, err)
	assert.False(t, dto.HasPIN)

	_, err = svc.VerifyPIN(ctx, orgID, dto.ID, "9999")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestUpdateEmployeeRotatesPIN(t *testing.T) {
	svc, orgID := newEmployeesService(t)
	ctx := context.Background()

	dto, err := svc.CreateEmployee(ctx, orgID, CreateEmployeeInput{
		Name: "Rotante",
		Role: enums.UserRoleSeller,
		PIN:  "1111",
	})
	require.NoError(t, err)

	newPIN := "2222"
	_, err = svc.UpdateEmployee(ctx, orgID, dto.ID, UpdateEmployeeInput{PIN: &newPIN})
	require.NoError(t, err)

	_, err = svc.VerifyPIN(ctx, orgID, dto.ID, "1111")
	assert.Error(t, err)
	_, err = svc.VerifyPIN(ctx, orgID, dto.ID, "2222")
	assert.NoError(t, err)
}

func TestLoginReturnsProfileForValidPIN(t *testing.T) {
	svc, orgID := newEmployeesService(t)
	ctx := context.Background()

	dto, err := svc.CreateEmployee(ctx, orgID, CreateEmployeeInput{
		Name: "Cajera",
		Role: enums.UserRoleSeller,
		PIN:  "7310",
	})
	require.NoError(t, err)

	profile, err := svc.Login(ctx, dto.ID, "7310")
	require.NoError(t, err)
	assert.Equal(t, dto.ID, profile.ID)
	assert.Equal(t, orgID, profile.OrganizationID)
}

func TestLoginIsUniformlyUnauthorized(t *testing.T) {
	svc, orgID := newEmployeesService(t)
	ctx := context.Background()

	dto, err := svc.CreateEmployee(ctx, orgID, CreateEmployeeInput{
		Name: "Objetivo",
		Role: enums.UserRoleSeller,
		PIN:  "1234",
	})
	require.NoError(t, err)

	// Unknown profile, wrong PIN, and deactivated profile must be
	// indistinguishable to the caller.
	_, unknownErr := svc.Login(ctx, uuid.New(), "1234")
	_, wrongPINErr := svc.Login(ctx, dto.ID, "9999")
	require.NoError(t, svc.DeactivateEmployee(ctx, orgID, dto.ID))
	_, inactiveErr := svc.Login(ctx, dto.ID, "1234")

	for _, err := range []error{unknownErr, wrongPINErr, inactiveErr} {
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, "invalid credentials", typed.Message())
	}
}

func TestEmployeeScopedToOrganization(t *testing.T) {
	svc, orgID := newEmployeesService(t)
	ctx := context.Background()

	dto, err := svc.CreateEmployee(ctx, orgID, CreateEmployeeInput{
		Name: "Cross Org",
		Role: enums.UserRoleAdmin,
		PIN:  "5555",
	})
	require.NoError(t, err)

	_, err = svc.GetEmployee(ctx, uuid.New(), dto.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
