package postservice

import (
	"net/url"

	"github.com/mbeaufort/inkwell/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 250), "title", "must not be more than 250 characters long")
}

func validateSubtitle(v *common.Validator, subtitle string) {
	v.Check(subtitle != "", "subtitle", "must be provided")
	v.Check(v.CheckStringLength(subtitle, 1, 250), "subtitle", "must not be more than 250 characters long")
}

func validateBody(v *common.Validator, body string) {
	v.Check(body != "", "body", "must be provided")
}

func validateImgURL(v *common.Validator, imgURL string) {
	v.Check(imgURL != "", "img_url", "must be provided")
	v.Check(v.CheckStringLength(imgURL, 1, 500), "img_url", "must not be more than 500 characters long")

	u, err := url.Parse(imgURL)
	v.Check(err == nil && u.Scheme != "" && u.Host != "", "img_url", "must be an absolute URL")
}

func validateCommentBody(v *common.Validator, body string) {
	v.Check(body != "", "comment", "must be provided")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
