package service_test // メインコードとは別のパッケージにすることで、公開されているものしかテストできなくなる

import (
	"context"
	"errors"
	"testing"
	"time"

	"course_quest/internal/config"
	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/repository/mocks"
	"course_quest/internal/service"
	servicemocks "course_quest/internal/service/mocks"
	"course_quest/internal/timeutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// --- テストスイートの定義 ---
type AuthServiceTestSuite struct {
	suite.Suite

	mockUserRepo *mocks.UserRepository
	mockMailer   *servicemocks.Mailer
	cfg          *config.Config
	clock        *timeutil.FixedClock
	authService  service.AuthService
}

// 各テストの前にモックを作り直す
func (s *AuthServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(mocks.UserRepository)
	s.mockMailer = new(servicemocks.Mailer)

	s.cfg = config.Default()
	s.cfg.App.FrontendURL = "http://localhost:3000"
	s.cfg.JWT.SecretKey = "test-secret"
	s.cfg.JWT.AccessTokenTTL = 15 * time.Minute

	s.clock = timeutil.NewFixedClock(time.Now(), time.UTC)
	// Register はトランザクションを張るため、形だけのDBを渡す
	s.authService = service.NewAuthService(setupTestDB(s.T()), s.mockUserRepo, s.mockMailer, s.clock, s.cfg)
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegister() {
	testCases := []struct {
		name        string
		req         *model.RegisterRequest
		setupMocks  func()
		checkResult func(user *model.User, err error)
	}{
		{
			name: "正常系: 登録してウェルカムメールを送る",
			req:  &model.RegisterRequest{Name: "taro", Email: "taro@example.com", Password: "password", Role: model.RoleStudent},
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "taro@example.com").Return(nil, model.ErrNotFound).Once()
				s.mockUserRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*model.User")).Return(nil).Once()
				s.mockMailer.On("Send", mock.Anything, "taro@example.com", mock.Anything, mock.Anything).Return(nil).Once()
			},
			checkResult: func(user *model.User, err error) {
				s.Require().NoError(err)
				s.Equal("taro@example.com", user.Email)
				s.Equal(model.RoleStudent, user.Role)
				s.Zero(user.XPPoints)
				s.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password")))
			},
		},
		{
			name: "正常系: メール送信に失敗しても登録は成功する",
			req:  &model.RegisterRequest{Name: "hanako", Email: "hanako@example.com", Password: "password", Role: model.RoleProfessor},
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "hanako@example.com").Return(nil, model.ErrNotFound).Once()
				s.mockUserRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*model.User")).Return(nil).Once()
				s.mockMailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
			},
			checkResult: func(user *model.User, err error) {
				s.Require().NoError(err)
				s.Equal(model.RoleProfessor, user.Role)
			},
		},
		{
			name: "異常系: Emailが重複している",
			req:  &model.RegisterRequest{Name: "taro", Email: "taro@example.com", Password: "password", Role: model.RoleStudent},
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "taro@example.com").Return(&model.User{}, nil).Once()
			},
			checkResult: func(user *model.User, err error) {
				s.Nil(user)
				var appErr *model.AppError
				s.Require().ErrorAs(err, &appErr)
				s.Equal("DUPLICATE_EMAIL", appErr.Detail.Code)
				s.ErrorIs(err, model.ErrConflict)
			},
		},
		{
			name: "異常系: 同時登録で一意制約違反",
			req:  &model.RegisterRequest{Name: "taro", Email: "taro@example.com", Password: "password", Role: model.RoleStudent},
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "taro@example.com").Return(nil, model.ErrNotFound).Once()
				s.mockUserRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(model.ErrConflict).Once()
			},
			checkResult: func(user *model.User, err error) {
				s.Nil(user)
				s.ErrorIs(err, model.ErrConflict)
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMocks()

			user, err := s.authService.Register(context.Background(), tc.req)

			tc.checkResult(user, err)
			s.mockUserRepo.AssertExpectations(s.T())
			s.mockMailer.AssertExpectations(s.T())
		})
	}
}

func (s *AuthServiceTestSuite) TestLogin() {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	s.Require().NoError(err)
	user := &model.User{UserID: uuid.New(), Email: "prof@example.com", PasswordHash: string(hash), Role: model.RoleProfessor}

	s.Run("正常系: トークンに sub と role が入る", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "prof@example.com").Return(user, nil).Once()

		resp, err := s.authService.Login(context.Background(), &model.LoginRequest{Email: "prof@example.com", Password: "password"})
		s.Require().NoError(err)
		s.Equal("Bearer", resp.TokenType)
		s.Equal(int64(900), resp.ExpiresIn)

		principal, err := middleware.ParseAccessToken(resp.AccessToken, s.cfg.JWT.SecretKey)
		s.Require().NoError(err)
		s.Equal(user.UserID, principal.UserID)
		s.Equal(model.RoleProfessor, principal.Role)
	})

	s.Run("異常系: パスワード不一致", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "prof@example.com").Return(user, nil).Once()

		resp, err := s.authService.Login(context.Background(), &model.LoginRequest{Email: "prof@example.com", Password: "wrong"})
		s.Nil(resp)
		s.ErrorIs(err, model.ErrUnauthorized)
	})

	s.Run("異常系: ユーザーが存在しない", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByEmail", mock.Anything, mock.Anything, "none@example.com").Return(nil, model.ErrNotFound).Once()

		_, err := s.authService.Login(context.Background(), &model.LoginRequest{Email: "none@example.com", Password: "password"})
		s.ErrorIs(err, model.ErrUnauthorized)
	})
}

func (s *AuthServiceTestSuite) TestGetMe() {
	userID := uuid.New()
	s.mockUserRepo.On("FindByID", mock.Anything, mock.Anything, userID).Return(&model.User{UserID: userID, XPPoints: 120}, nil).Once()

	user, err := s.authService.GetMe(context.Background(), userID)
	s.Require().NoError(err)
	s.Equal(120, user.XPPoints)

	missing := uuid.New()
	s.mockUserRepo.On("FindByID", mock.Anything, mock.Anything, missing).Return(nil, model.ErrNotFound).Once()
	_, err = s.authService.GetMe(context.Background(), missing)
	s.ErrorIs(err, model.ErrNotFound)
}
