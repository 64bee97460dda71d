package user

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/jwt"
	"foodgram/pkg/relation"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/crypto/bcrypt"
)

const avatarFolder = "avatars"

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, token string) error
		GetUsers(ctx context.Context, viewerID uint, page domain.PageRequest) (domain.UserListResponse, error)
		GetUser(ctx context.Context, id, viewerID uint) (domain.UserProfile, error)
		UpdateAvatar(ctx context.Context, userID uint, req domain.AvatarRequest) (domain.AvatarResponse, error)
		DeleteAvatar(ctx context.Context, userID uint) error
		SetPassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error

		// Subscribe makes userID follow authorID and returns the author with
		// up to recipesLimit recipes; recipesLimit < 0 returns all of them.
		Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (domain.UserWithRecipes, error)
		Unsubscribe(ctx context.Context, userID, authorID uint) error
		GetSubscriptions(ctx context.Context, userID uint, page domain.PageRequest, recipesLimit int) (domain.SubscriptionListResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		images         storage.ImageStorage
		mailer         mailing.Mailer
		appURL         string
		subscriptions  *relation.Toggler[*entities.User]
	}
)

func NewUserService(
	userRepository UserRepository,
	relations relation.Store,
	jwtService jwt.JWTService,
	images storage.ImageStorage,
	mailer mailing.Mailer,
	appURL string,
) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		images:         images,
		mailer:         mailer,
		appURL:         appURL,
		subscriptions: relation.NewToggler(relations, relation.Config[*entities.User]{
			Kind:       relation.KindSubscription,
			Resolve:    userRepository.GetUserByID,
			Messages:   relation.SubscriptionMessages,
			ForbidSelf: true,
		}),
	}
}

func ToUserProfile(u *entities.User, subscribed bool) domain.UserProfile {
	return domain.UserProfile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
		Avatar:       u.Avatar,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if err := s.checkAvailable(ctx, req.Email, req.Username); err != nil {
		return domain.RegisterResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// lost a race with a concurrent sign-up
			if err := s.checkAvailable(ctx, req.Email, req.Username); err != nil {
				return domain.RegisterResponse{}, err
			}
			return domain.RegisterResponse{}, domain.ErrEmailTaken
		}
		return domain.RegisterResponse{}, err
	}

	log.Infow("user registered", "user_id", user.ID)
	if s.mailer != nil && s.mailer.Enabled() {
		go s.sendWelcome(user.Email, user.Username)
	}

	return domain.RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) checkAvailable(ctx context.Context, email, username string) error {
	taken, err := s.userRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailTaken
	}

	taken, err = s.userRepository.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}
	return nil
}

func (s *userService) sendWelcome(email, username string) {
	body := mailing.WelcomeBody(s.appURL, username)
	if err := s.mailer.SendMail(email, "Welcome to Foodgram", body); err != nil {
		log.Warnw("failed to send welcome mail", "email", email, "error", err)
	}
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Logout(_ context.Context, token string) error {
	return s.jwtService.Revoke(token)
}

func (s *userService) GetUsers(ctx context.Context, viewerID uint, page domain.PageRequest) (domain.UserListResponse, error) {
	users, total, err := s.userRepository.GetUsers(ctx, page)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := s.userRepository.GetSubscribedAuthors(ctx, viewerID, ids)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	out := make([]domain.UserProfile, len(users))
	for i, u := range users {
		out[i] = ToUserProfile(u, subscribed[u.ID])
	}
	return domain.UserListResponse{
		Users:      out,
		Pagination: domain.NewPagination(page, total),
	}, nil
}

func (s *userService) GetUser(ctx context.Context, id, viewerID uint) (domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserProfile{}, err
	}

	subscribed, err := s.userRepository.GetSubscribedAuthors(ctx, viewerID, []uint{id})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return ToUserProfile(user, subscribed[id]), nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID uint, req domain.AvatarRequest) (domain.AvatarResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	url, err := s.images.SaveBase64(ctx, avatarFolder, req.Avatar)
	if err != nil {
		return domain.AvatarResponse{}, err
	}
	if err := s.userRepository.UpdateAvatar(ctx, userID, url); err != nil {
		s.discardImage(ctx, url)
		return domain.AvatarResponse{}, err
	}
	if user.Avatar != "" {
		s.discardImage(ctx, user.Avatar)
	}
	return domain.AvatarResponse{Avatar: url}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}

	if err := s.userRepository.UpdateAvatar(ctx, userID, ""); err != nil {
		return err
	}
	s.discardImage(ctx, user.Avatar)
	return nil
}

func (s *userService) discardImage(ctx context.Context, url string) {
	if err := s.images.Delete(ctx, url); err != nil {
		log.Warnw("failed to delete avatar", "url", url, "error", err)
	}
}

func (s *userService) SetPassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return domain.ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, userID, string(hash))
}

func (s *userService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (domain.UserWithRecipes, error) {
	author, err := s.subscriptions.Add(ctx, userID, authorID)
	if err != nil {
		return domain.UserWithRecipes{}, err
	}

	out, err := s.withRecipes(ctx, []*entities.User{author}, recipesLimit)
	if err != nil {
		return domain.UserWithRecipes{}, err
	}
	return out[0], nil
}

func (s *userService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	return s.subscriptions.Remove(ctx, userID, authorID)
}

func (s *userService) GetSubscriptions(ctx context.Context, userID uint, page domain.PageRequest, recipesLimit int) (domain.SubscriptionListResponse, error) {
	authors, total, err := s.userRepository.GetSubscriptions(ctx, userID, page)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	out, err := s.withRecipes(ctx, authors, recipesLimit)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}
	return domain.SubscriptionListResponse{
		Users:      out,
		Pagination: domain.NewPagination(page, total),
	}, nil
}

// withRecipes renders followed authors, so IsSubscribed is always true.
func (s *userService) withRecipes(ctx context.Context, authors []*entities.User, recipesLimit int) ([]domain.UserWithRecipes, error) {
	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.userRepository.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserWithRecipes, len(authors))
	for i, a := range authors {
		recipes, err := s.userRepository.GetLatestRecipes(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}

		shorts := make([]domain.RecipeShort, len(recipes))
		for j, r := range recipes {
			shorts[j] = domain.RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
		}
		out[i] = domain.UserWithRecipes{
			UserProfile:  ToUserProfile(a, true),
			Recipes:      shorts,
			RecipesCount: counts[a.ID],
		}
	}
	return out, nil
}
