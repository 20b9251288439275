package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/altamedia/contentflow/internal/models"
	"github.com/altamedia/contentflow/internal/repository"
)

type PostService interface {
	List(ctx context.Context, status string) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID int64) (*models.Post, error)
	Remove(ctx context.Context, postID int64) error
}

type postService struct {
	pr repository.PostRepository
}

func NewPostService(pr repository.PostRepository) PostService {
	return &postService{pr: pr}
}

func (s *postService) List(ctx context.Context, status string) ([]*models.Post, error) {
	if status == "" {
		status = models.PostStatusDraft
	}
	posts, err := s.pr.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("Error listing posts")
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID int64) (*models.Post, error) {
	var err error

	if postID == 0 {
		err = errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("Error getting post info")
	}
	if post == nil {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (s *postService) Remove(ctx context.Context, postID int64) error {
	var err error

	if postID == 0 {
		err = errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.pr.Remove(ctx, postID)
	if err != nil {
		return fmt.Errorf("Error removing post")
	}

	return nil
}
