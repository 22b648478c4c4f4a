package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"plantspace/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetProfile(ctx context.Context, userID int, viewerID int) (models.PublicProfile, error) {
	args := m.Called(ctx, userID, viewerID)
	var profile models.PublicProfile
	if val := args.Get(0); val != nil {
		profile = val.(models.PublicProfile)
	}
	return profile, args.Error(1)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID int, displayName, bio, avatarURL string) (models.User, error) {
	args := m.Called(ctx, userID, displayName, bio, avatarURL)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *UserRepositoryMock) SearchUsers(ctx context.Context, query string, limit int) ([]models.PublicProfile, error) {
	args := m.Called(ctx, query, limit)
	var list []models.PublicProfile
	if val := args.Get(0); val != nil {
		list = val.([]models.PublicProfile)
	}
	return list, args.Error(1)
}

func (m *UserRepositoryMock) Follow(ctx context.Context, followerID, followeeID int) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *UserRepositoryMock) Unfollow(ctx context.Context, followerID, followeeID int) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetVerified(ctx context.Context, userID int, verified bool) error {
	args := m.Called(ctx, userID, verified)
	return args.Error(0)
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) CreatePost(ctx context.Context, authorID int, content, imageURL string) (models.Post, error) {
	args := m.Called(ctx, authorID, content, imageURL)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) GetPost(ctx context.Context, postID int, viewerID int) (models.FeedPost, error) {
	args := m.Called(ctx, postID, viewerID)
	var post models.FeedPost
	if val := args.Get(0); val != nil {
		post = val.(models.FeedPost)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) DeletePost(ctx context.Context, postID int, authorID int) error {
	args := m.Called(ctx, postID, authorID)
	return args.Error(0)
}

func (m *PostRepositoryMock) Feed(ctx context.Context, viewerID int, offset, limit int) ([]models.FeedPost, error) {
	args := m.Called(ctx, viewerID, offset, limit)
	var list []models.FeedPost
	if val := args.Get(0); val != nil {
		list = val.([]models.FeedPost)
	}
	return list, args.Error(1)
}

func (m *PostRepositoryMock) Like(ctx context.Context, postID, userID int) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *PostRepositoryMock) Unlike(ctx context.Context, postID, userID int) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

type CommentRepositoryMock struct {
	mock.Mock
}

func (m *CommentRepositoryMock) CreateComment(ctx context.Context, postID, authorID int, content string) (models.Comment, error) {
	args := m.Called(ctx, postID, authorID, content)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func (m *CommentRepositoryMock) GetComment(ctx context.Context, commentID int) (models.Comment, error) {
	args := m.Called(ctx, commentID)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func (m *CommentRepositoryMock) ListComments(ctx context.Context, postID int, offset, limit int) ([]models.CommentWithAuthor, error) {
	args := m.Called(ctx, postID, offset, limit)
	var list []models.CommentWithAuthor
	if val := args.Get(0); val != nil {
		list = val.([]models.CommentWithAuthor)
	}
	return list, args.Error(1)
}

func (m *CommentRepositoryMock) DeleteComment(ctx context.Context, commentID int) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, senderID, receiverID int, content, imageURL string) (models.MessageWithSender, error) {
	args := m.Called(ctx, senderID, receiverID, content, imageURL)
	var msg models.MessageWithSender
	if val := args.Get(0); val != nil {
		msg = val.(models.MessageWithSender)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetThread(ctx context.Context, userID, otherUserID int, offset, limit int) ([]models.MessageWithSender, error) {
	args := m.Called(ctx, userID, otherUserID, offset, limit)
	var list []models.MessageWithSender
	if val := args.Get(0); val != nil {
		list = val.([]models.MessageWithSender)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) ListConversations(ctx context.Context, userID int) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	var list []models.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]models.Conversation)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, userID, otherUserID int) (int, error) {
	args := m.Called(ctx, userID, otherUserID)
	return args.Int(0), args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) DeleteMessage(ctx context.Context, messageID, senderID int) error {
	args := m.Called(ctx, messageID, senderID)
	return args.Error(0)
}

type ModerationRepositoryMock struct {
	mock.Mock
}

func (m *ModerationRepositoryMock) CreateReport(ctx context.Context, reporterID int, targetType string, targetID int, reason string) (models.Report, error) {
	args := m.Called(ctx, reporterID, targetType, targetID, reason)
	var report models.Report
	if val := args.Get(0); val != nil {
		report = val.(models.Report)
	}
	return report, args.Error(1)
}

func (m *ModerationRepositoryMock) ListReports(ctx context.Context, status string, offset, limit int) ([]models.Report, error) {
	args := m.Called(ctx, status, offset, limit)
	var list []models.Report
	if val := args.Get(0); val != nil {
		list = val.([]models.Report)
	}
	return list, args.Error(1)
}

func (m *ModerationRepositoryMock) UpdateReportStatus(ctx context.Context, reportID int, status string) (models.Report, error) {
	args := m.Called(ctx, reportID, status)
	var report models.Report
	if val := args.Get(0); val != nil {
		report = val.(models.Report)
	}
	return report, args.Error(1)
}

func (m *ModerationRepositoryMock) CreateVerificationRequest(ctx context.Context, userID int, note string) (models.VerificationRequest, error) {
	args := m.Called(ctx, userID, note)
	var req models.VerificationRequest
	if val := args.Get(0); val != nil {
		req = val.(models.VerificationRequest)
	}
	return req, args.Error(1)
}

func (m *ModerationRepositoryMock) ListVerificationRequests(ctx context.Context, status string, offset, limit int) ([]models.VerificationRequest, error) {
	args := m.Called(ctx, status, offset, limit)
	var list []models.VerificationRequest
	if val := args.Get(0); val != nil {
		list = val.([]models.VerificationRequest)
	}
	return list, args.Error(1)
}

func (m *ModerationRepositoryMock) ResolveVerificationRequest(ctx context.Context, requestID, reviewerID int, status string) (models.VerificationRequest, error) {
	args := m.Called(ctx, requestID, reviewerID, status)
	var req models.VerificationRequest
	if val := args.Get(0); val != nil {
		req = val.(models.VerificationRequest)
	}
	return req, args.Error(1)
}
