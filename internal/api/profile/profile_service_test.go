package profile

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/careerbridge/careerbridge-api/internal/api/auth"
)

// MockProfileRepo is a mock implementation of the ProfileRepo interface
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByID(ctx context.Context, userID uuid.UUID) (*auth.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Account), args.Error(1)
}

func (m *MockProfileRepo) UsernameTakenByOther(ctx context.Context, userID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, userID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepo) EmailTakenByOther(ctx context.Context, userID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, userID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) error {
	args := m.Called(ctx, userID, params)
	return args.Error(0)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	student := func() *auth.Account {
		return &auth.Account{
			ID:       userID,
			Username: "jdoe",
			Email:    "jdoe@example.com",
			Role:     auth.RoleStudent,
			IsActive: true,
		}
	}

	t.Run("UsernameMoveChecked", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())

		newUsername := "jdoe2"
		mockRepo.On("GetByID", ctx, userID).Return(student(), nil).Twice()
		mockRepo.On("UsernameTakenByOther", ctx, userID, newUsername).Return(false, nil).Once()
		mockRepo.On("UpdateProfile", ctx, userID, mock.AnythingOfType("profile.UpdateProfileParams")).
			Return(nil).Once()

		_, err := service.UpdateProfile(ctx, userID, UpdateProfileParams{Username: &newUsername})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())

		newUsername := "taken"
		mockRepo.On("GetByID", ctx, userID).Return(student(), nil).Once()
		mockRepo.On("UsernameTakenByOther", ctx, userID, newUsername).Return(true, nil).Once()

		_, err := service.UpdateProfile(ctx, userID, UpdateProfileParams{Username: &newUsername})

		assert.ErrorIs(t, err, ErrUsernameTaken)
		mockRepo.AssertNotCalled(t, "UpdateProfile")
	})

	t.Run("EmailTaken", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())

		newEmail := "taken@example.com"
		mockRepo.On("GetByID", ctx, userID).Return(student(), nil).Once()
		mockRepo.On("EmailTakenByOther", ctx, userID, newEmail).Return(true, nil).Once()

		_, err := service.UpdateProfile(ctx, userID, UpdateProfileParams{Email: &newEmail})

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "UpdateProfile")
	})

	t.Run("KeepingOwnUsernameSkipsCheck", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())

		sameUsername := "jdoe"
		mockRepo.On("GetByID", ctx, userID).Return(student(), nil).Twice()
		mockRepo.On("UpdateProfile", ctx, userID, mock.AnythingOfType("profile.UpdateProfileParams")).
			Return(nil).Once()

		_, err := service.UpdateProfile(ctx, userID, UpdateProfileParams{Username: &sameUsername})

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "UsernameTakenByOther")
	})

	t.Run("RecruiterInfoDroppedForStudent", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())

		company := "Acme"
		mockRepo.On("GetByID", ctx, userID).Return(student(), nil).Twice()
		mockRepo.On("UpdateProfile", ctx, userID, mock.AnythingOfType("profile.UpdateProfileParams")).
			Run(func(args mock.Arguments) {
				params := args.Get(2).(UpdateProfileParams)
				assert.Nil(t, params.RecruiterInfo)
				assert.NotNil(t, params.StudentInfo)
			}).
			Return(nil).Once()

		_, err := service.UpdateProfile(ctx, userID, UpdateProfileParams{
			StudentInfo:   &auth.StudentInfo{},
			RecruiterInfo: &auth.RecruiterInfo{CompanyName: &company},
		})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
