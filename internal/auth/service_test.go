package auth

import (
	"testing"

	"kisan-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestRegisterThenLogin(t *testing.T) {
	db := setupAuthDB(t)

	user, err := RegisterUser(db, RegisterInput{
		Fullname: "Ramesh Kumar",
		Email:    "ramesh@example.com",
		Password: "secret1pass!",
		UserType: models.UserTypeFarmer,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1pass!", user.PasswordHash)

	got, err := LoginUser(db, LoginInput{Email: "ramesh@example.com", Password: "secret1pass!"})
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)

	_, err = LoginUser(db, LoginInput{Email: "ramesh@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	_, err = LoginUser(db, LoginInput{Email: "unknown@example.com", Password: "secret1pass!"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestRegisterUser_Validation(t *testing.T) {
	db := setupAuthDB(t)

	base := RegisterInput{
		Fullname: "Ramesh Kumar",
		Email:    "ramesh@example.com",
		Password: "secret1pass!",
		UserType: models.UserTypeFarmer,
	}

	in := base
	in.Password = "short"
	_, err := RegisterUser(db, in)
	assert.ErrorIs(t, err, ErrWeakPassword)

	in = base
	in.Email = "not-an-email"
	_, err = RegisterUser(db, in)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	in = base
	in.UserType = "admin"
	_, err = RegisterUser(db, in)
	assert.ErrorIs(t, err, ErrInvalidUserType)

	_, err = RegisterUser(db, base)
	require.NoError(t, err)
	_, err = RegisterUser(db, base)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyUser(t *testing.T) {
	_, err := VerifyUser(nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = VerifyUser("garbage")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	shape, err := VerifyUser(map[string]interface{}{
		"user_id":   "11111111-1111-1111-1111-111111111111",
		"fullname":  "Ramesh Kumar",
		"email":     "ramesh@example.com",
		"user_type": "farmer",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Kumar", shape.Fullname)
	assert.Equal(t, "farmer", shape.UserType)
}
