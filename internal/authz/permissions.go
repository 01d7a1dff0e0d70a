// Package authz lists the permission codenames checked by the admin routes.
package authz

const (
	ViewTag   = "news.view_tag"
	AddTag    = "news.add_tag"
	ChangeTag = "news.change_tag"
	DeleteTag = "news.delete_tag"

	ViewHotNews   = "news.view_hotnews"
	AddHotNews    = "news.add_hotnews"
	ChangeHotNews = "news.change_hotnews"
	DeleteHotNews = "news.delete_hotnews"

	ViewNews   = "news.view_news"
	AddNews    = "news.add_news"
	ChangeNews = "news.change_news"
	DeleteNews = "news.delete_news"

	ViewBanner   = "news.view_banner"
	AddBanner    = "news.add_banner"
	ChangeBanner = "news.change_banner"
	DeleteBanner = "news.delete_banner"

	ViewDoc   = "docs.view_doc"
	AddDoc    = "docs.add_doc"
	ChangeDoc = "docs.change_doc"
	DeleteDoc = "docs.delete_doc"

	ViewCourse   = "course.view_course"
	AddCourse    = "course.add_course"
	ChangeCourse = "course.change_course"
	DeleteCourse = "course.delete_course"

	ViewGroup   = "auth.view_group"
	AddGroup    = "auth.add_group"
	ChangeGroup = "auth.change_group"
	DeleteGroup = "auth.delete_group"

	ViewUsers   = "users.view_users"
	ChangeUsers = "users.change_users"
	DeleteUsers = "users.delete_users"
)

// HasAll reports whether granted covers every required codename.
func HasAll(granted []string, required ...string) bool {
	set := make(map[string]struct{}, len(granted))
	for _, g := range granted {
		set[g] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}
