package postservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateTitle   = errors.New("duplicate title")
	ErrAuthorForeignKey = errors.New("author_id does not exist")
	ErrPostForeignKey   = errors.New("post_id does not exist")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

// pqErrorIs reports whether the error is the given postgres error class on
// the named constraint. "23503" is a foreign key violation, "23505" a unique
// violation.
func pqErrorIs(err error, code pq.ErrorCode, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code && pqErr.Constraint == constraint
	}

	return false
}

func (m *PostModel) insert(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO blog_posts (title, subtitle, date, body, img_url, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	args := []any{
		post.Title,
		post.Subtitle,
		post.Date,
		post.Body,
		post.ImgURL,
		post.AuthorID,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&post.ID)
	if err != nil {
		switch {
		case pqErrorIs(err, "23505", "blog_posts_title_key"):
			return ErrDuplicateTitle
		case pqErrorIs(err, "23503", "blog_posts_author_id_fkey"):
			return ErrAuthorForeignKey
		default:
			return err
		}
	}

	return nil
}

// getPostById joins the users table so the view can show the author's name.
func (m *PostModel) getPostById(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT p.id, p.title, p.subtitle, p.date, p.body, p.img_url, p.author_id, u.name
		FROM blog_posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = $1`

	var post Post
	err := m.db.QueryRowContext(ctx, query, id).Scan(&post.ID, &post.Title, &post.Subtitle, &post.Date, &post.Body, &post.ImgURL, &post.AuthorID, &post.AuthorName)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &post, nil
}

// getPosts returns every post in ascending id order so the listing is
// stable across requests.
func (m *PostModel) getPosts(ctx context.Context) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.subtitle, p.date, p.body, p.img_url, p.author_id, u.name
		FROM blog_posts p
		JOIN users u ON p.author_id = u.id
		ORDER BY p.id ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.Title, &post.Subtitle, &post.Date, &post.Body, &post.ImgURL, &post.AuthorID, &post.AuthorName)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// updatePost overwrites every mutable field in place, including the author.
func (m *PostModel) updatePost(ctx context.Context, post *Post) error {
	query := `
		UPDATE blog_posts
		SET title = $1, subtitle = $2, body = $3, img_url = $4, author_id = $5
		WHERE id = $6`

	res, err := m.db.ExecContext(ctx, query, post.Title, post.Subtitle, post.Body, post.ImgURL, post.AuthorID, post.ID)
	if err != nil {
		switch {
		case pqErrorIs(err, "23505", "blog_posts_title_key"):
			return ErrDuplicateTitle
		case pqErrorIs(err, "23503", "blog_posts_author_id_fkey"):
			return ErrAuthorForeignKey
		default:
			return err
		}
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

// deletePost removes the post; its comments go with it through the
// ON DELETE CASCADE on comments.post_id.
func (m *PostModel) deletePost(ctx context.Context, id int) error {
	query := `
		DELETE FROM blog_posts
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *PostModel) insertComment(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (body, author_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := m.db.QueryRowContext(ctx, query, comment.Body, comment.AuthorID, comment.PostID).Scan(&comment.ID)
	if err != nil {
		switch {
		case pqErrorIs(err, "23503", "comments_author_id_fkey"):
			return ErrAuthorForeignKey
		case pqErrorIs(err, "23503", "comments_post_id_fkey"):
			return ErrPostForeignKey
		default:
			return err
		}
	}

	return nil
}

// getCommentsByPostId returns the post's comments in insertion order.
func (m *PostModel) getCommentsByPostId(ctx context.Context, postID int) ([]Comment, error) {
	query := `
		SELECT c.id, c.body, c.author_id, u.name, c.post_id
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.id ASC`

	rows, err := m.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var comment Comment
		err := rows.Scan(&comment.ID, &comment.Body, &comment.AuthorID, &comment.AuthorName, &comment.PostID)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
