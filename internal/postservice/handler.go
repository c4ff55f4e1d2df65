package postservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/mbeaufort/inkwell/internal/common"
)

const cacheTTL = 5 * time.Minute

func NewPostService(db *sql.DB) *PostService {
	return &PostService{
		m: newPostModel(db),
		c: common.NewCache(cacheTTL, 10*time.Minute),
	}
}

type CreatePostRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	ImgURL   string `json:"img_url"`
	AuthorID int    `json:"author_id"`
}

type UpdatePostRequest struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	ImgURL   string `json:"img_url"`
	AuthorID int    `json:"author_id"`
}

type AddCommentRequest struct {
	Body     string `json:"body"`
	AuthorID int    `json:"author_id"`
	PostID   int    `json:"post_id"`
}

// GetPosts returns every post in a stable order, serving repeat reads from
// the in-process cache.
func (s *PostService) GetPosts(ctx context.Context) ([]Post, error) {
	if cached, ok := s.c.Get(common.CacheKeyPosts()); ok {
		return cached.([]Post), nil
	}

	posts, err := s.m.getPosts(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPosts(), posts)

	return posts, nil
}

// GetPostByID returns a single post with its author's name.
func (s *PostService) GetPostByID(ctx context.Context, id int) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyPost(id)); ok {
		return cached.(*Post), nil
	}

	post, err := s.m.getPostById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyPost(id), post)

	return post, nil
}

// CreatePost persists a new post. The publication date is stamped from the
// current day; the body is sanitized before it is stored.
func (s *PostService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateSubtitle(v, req.Subtitle)
	validateBody(v, req.Body)
	validateImgURL(v, req.ImgURL)
	validateInt(v, req.AuthorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post := &Post{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Date:     time.Now().Format(PublicationDateFormat),
		Body:     sanitizeRichText(req.Body),
		ImgURL:   req.ImgURL,
		AuthorID: req.AuthorID,
	}

	if err := s.m.insert(ctx, post); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPosts())

	return post, nil
}

// UpdatePost overwrites all fields of an existing post, keeping its original
// publication date.
func (s *PostService) UpdatePost(ctx context.Context, req *UpdatePostRequest) error {
	v := common.NewValidator()
	validateInt(v, req.ID, "id")
	validateTitle(v, req.Title)
	validateSubtitle(v, req.Subtitle)
	validateBody(v, req.Body)
	validateImgURL(v, req.ImgURL)
	validateInt(v, req.AuthorID, "author_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	post := &Post{
		ID:       req.ID,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     sanitizeRichText(req.Body),
		ImgURL:   req.ImgURL,
		AuthorID: req.AuthorID,
	}

	if err := s.m.updatePost(ctx, post); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPost(req.ID))
	s.c.Delete(common.CacheKeyPosts())

	return nil
}

// DeletePost removes a post and, through the cascade, its comments.
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.deletePost(ctx, id); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPost(id))
	s.c.Delete(common.CacheKeyPosts())
	s.c.Delete(common.CacheKeyComments(id))

	return nil
}

// AddComment attaches a comment to a post on behalf of an authenticated user.
func (s *PostService) AddComment(ctx context.Context, req *AddCommentRequest) (*Comment, error) {
	v := common.NewValidator()
	validateCommentBody(v, req.Body)
	validateInt(v, req.AuthorID, "author_id")
	validateInt(v, req.PostID, "post_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	comment := &Comment{
		Body:     sanitizeRichText(req.Body),
		AuthorID: req.AuthorID,
		PostID:   req.PostID,
	}

	if err := s.m.insertComment(ctx, comment); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyComments(req.PostID))

	return comment, nil
}

// GetComments returns a post's comments in insertion order.
func (s *PostService) GetComments(ctx context.Context, postID int) ([]Comment, error) {
	v := common.NewValidator()
	validateInt(v, postID, "post_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyComments(postID)); ok {
		return cached.([]Comment), nil
	}

	comments, err := s.m.getCommentsByPostId(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyComments(postID), comments)

	return comments, nil
}
