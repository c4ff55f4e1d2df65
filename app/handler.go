package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mbeaufort/inkwell/internal/common"
	"github.com/mbeaufort/inkwell/internal/mailservice"
	"github.com/mbeaufort/inkwell/internal/postservice"
	"github.com/mbeaufort/inkwell/internal/userservice"
)

const sessionCookieName = "session"

func (app *application) setSessionCookie(w http.ResponseWriter, session *userservice.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Plain,
		Path:     "/",
		Expires:  session.Expiry,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   app.config.Environment == "production",
	})
}

func (app *application) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   app.config.Environment == "production",
	})
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.postService.GetPosts(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) showPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.GetPostByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	comments, err := app.postService.GetComments(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post, "comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// addCommentHandler appends a comment and re-renders the post view with the
// fresh comment list. There is deliberately no redirect here; the original
// flow re-renders the same page after a submit.
func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)
	if user.IsAnonymous() {
		app.flashResponse(w, r, http.StatusUnauthorized, "You need to login to comment")
		return
	}

	if err := app.parseForm(w, r); err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.GetPostByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	req := &postservice.AddCommentRequest{
		Body:     r.PostFormValue("comment"),
		AuthorID: user.ID,
		PostID:   id,
	}

	_, err = app.postService.AddComment(r.Context(), req)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, postservice.ErrPostForeignKey):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	comments, err := app.postService.GetComments(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": post, "comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type registerForm struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (app *application) registerFormHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"form": registerForm{}}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.RegisterUser(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"), r.PostFormValue("name"))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.flashResponse(w, r, http.StatusUnprocessableEntity, "You have already signed up with that email, login instead!")
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// log in and authenticate the user right after registration
	session, err := app.userService.CreateSession(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.setSessionCookie(w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) loginFormHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"form": registerForm{}}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.LoginUser(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrUnknownEmail):
			app.flashResponse(w, r, http.StatusUnauthorized, "The email entered is not valid")
		case errors.Is(err, userservice.ErrInvalidPassword):
			app.flashResponse(w, r, http.StatusUnauthorized, "The password entered is not correct")
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	session, err := app.userService.CreateSession(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.setSessionCookie(w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logoutUserHandler clears the session unconditionally. Logging out while
// already anonymous is a no-op. The cookie is cleared before the stored
// session is touched, so the client is logged out even if the delete fails.
func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	app.clearSessionCookie(w)

	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := app.userService.DeleteSession(r.Context(), cookie.Value); err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type postForm struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	ImgURL   string `json:"img_url"`
}

func (app *application) newPostFormHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"form": postForm{}}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	req := &postservice.CreatePostRequest{
		Title:    r.PostFormValue("title"),
		Subtitle: r.PostFormValue("subtitle"),
		Body:     r.PostFormValue("body"),
		ImgURL:   r.PostFormValue("img_url"),
		AuthorID: user.ID,
	}

	_, err := app.postService.CreatePost(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrDuplicateTitle):
			app.failedValidationErrorResponse(w, r, map[string]string{"title": "a post with this title already exists"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, postservice.ErrAuthorForeignKey):
			app.forbiddenErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// editPostFormHandler pre-populates the edit form from the stored post.
func (app *application) editPostFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.GetPostByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	form := postForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Body:     post.Body,
		ImgURL:   post.ImgURL,
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"form": form}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if err := app.parseForm(w, r); err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	req := &postservice.UpdatePostRequest{
		ID:       id,
		Title:    r.PostFormValue("title"),
		Subtitle: r.PostFormValue("subtitle"),
		Body:     r.PostFormValue("body"),
		ImgURL:   r.PostFormValue("img_url"),
		AuthorID: user.ID,
	}

	err = app.postService.UpdatePost(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrDuplicateTitle):
			app.failedValidationErrorResponse(w, r, map[string]string{"title": "a post with this title already exists"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/post/"+strconv.Itoa(id), http.StatusSeeOther)
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.postService.DeletePost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) aboutHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"page": "about"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) contactHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"page": "contact"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) sendContactMessageHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.parseForm(w, r); err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	msg := &mailservice.ContactMessage{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}

	v := common.NewValidator()
	v.Check(msg.Name != "", "name", "must be provided")
	v.Check(msg.Email != "", "email", "must be provided")
	v.Check(msg.Message != "", "message", "must be provided")
	if !v.Valid() {
		app.failedValidationErrorResponse(w, r, v.Errors)
		return
	}

	if err := app.mailService.SendContactMessage(msg); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.flashResponse(w, r, http.StatusOK, "Your message has been sent")
}
