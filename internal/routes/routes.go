package routes

import (
	"github.com/gin-gonic/gin"

	"newsportal/internal/authz"
	"newsportal/internal/handlers"
	"newsportal/internal/middleware"
)

type Handlers struct {
	Verify    *handlers.VerifyHandler
	Auth      *handlers.AuthHandler
	News      *handlers.NewsHandler
	Docs      *handlers.DocHandler
	AdminNews *handlers.AdminNewsHandler
	AdminDocs *handlers.AdminDocHandler
	Users     *handlers.UserHandler
}

type Guards struct {
	// ограничитель для /image_codes/, может быть nil
	ImageCodes  *middleware.IPRateLimiter
	Permissions middleware.PermissionLoader
}

func SetupRoutes(r *gin.Engine, h Handlers, g Guards) *gin.Engine {
	// ---- verification
	imageCodes := []gin.HandlerFunc{}
	if g.ImageCodes != nil {
		imageCodes = append(imageCodes, g.ImageCodes.Middleware())
	}
	r.GET("/image_codes/:image_code_id/", append(imageCodes, h.Verify.ImageCode)...)
	r.GET("/usernames/:username/", h.Verify.Username)
	r.GET("/mobiles/:mobile/", h.Verify.Mobile)
	r.POST("/sms_codes/", h.Verify.SmsCode)

	// ---- users
	users := r.Group("/users")
	{
		users.POST("/register/", h.Auth.Register)
		users.POST("/login/", h.Auth.Login)
		users.GET("/logout/", h.Auth.Logout)
	}

	// ---- public content
	news := r.Group("/news")
	{
		news.GET("/", h.News.List)
		news.GET("/tags/", h.News.Tags)
		news.GET("/banners/", h.News.Banners)
		news.GET("/hot/", h.News.HotNews)
		news.GET("/:news_id/", h.News.Detail)
		news.POST("/:news_id/comments/", middleware.RequireLogin(), h.News.PostComment)
	}
	r.GET("/search/", h.News.Search)

	r.GET("/docs/", h.Docs.ListDocs)
	r.GET("/docs/:doc_id/download/", h.Docs.Download)
	r.GET("/courses/", h.Docs.ListCourses)
	r.GET("/courses/:course_id/", h.Docs.CourseDetail)

	// ---- admin (staff only, then per-route codenames)
	perm := func(codenames ...string) gin.HandlerFunc {
		return middleware.RequirePermissions(g.Permissions, codenames...)
	}
	admin := r.Group("/admin", middleware.RequireStaff())

	tags := admin.Group("/tags")
	{
		tags.GET("/", perm(authz.ViewTag), h.AdminNews.ListTags)
		tags.POST("/", perm(authz.AddTag), h.AdminNews.AddTag)
		tags.PUT("/:tag_id/", perm(authz.ChangeTag), h.AdminNews.RenameTag)
		tags.DELETE("/:tag_id/", perm(authz.DeleteTag), h.AdminNews.DeleteTag)
	}

	hot := admin.Group("/hotnews")
	{
		hot.GET("/", perm(authz.ViewHotNews), h.AdminNews.ListHotNews)
		hot.GET("/tags/:tag_id/news/", perm(authz.AddHotNews), h.AdminNews.NewsByTag)
		hot.POST("/", perm(authz.AddHotNews), h.AdminNews.AddHotNews)
		hot.PUT("/:hotnews_id/", perm(authz.ChangeHotNews), h.AdminNews.EditHotNews)
		hot.DELETE("/:hotnews_id/", perm(authz.DeleteHotNews), h.AdminNews.DeleteHotNews)
	}

	an := admin.Group("/news")
	{
		an.GET("/", perm(authz.ViewNews), h.AdminNews.ManageNews)
		an.POST("/", perm(authz.AddNews), h.AdminNews.PublishNews)
		an.POST("/images/", perm(authz.AddNews), h.AdminNews.UploadImage)
		an.GET("/:news_id/", perm(authz.ChangeNews), h.AdminNews.GetNews)
		an.PUT("/:news_id/", perm(authz.ChangeNews), h.AdminNews.EditNews)
		an.DELETE("/:news_id/", perm(authz.DeleteNews), h.AdminNews.DeleteNews)
	}

	banners := admin.Group("/banners")
	{
		banners.GET("/", perm(authz.ViewBanner), h.AdminNews.ListBanners)
		banners.POST("/", perm(authz.AddBanner), h.AdminNews.AddBanner)
		banners.PUT("/:banner_id/", perm(authz.ChangeBanner), h.AdminNews.EditBanner)
		banners.DELETE("/:banner_id/", perm(authz.DeleteBanner), h.AdminNews.DeleteBanner)
	}

	docs := admin.Group("/docs")
	{
		docs.GET("/", perm(authz.ViewDoc), h.AdminDocs.ListDocs)
		docs.POST("/", perm(authz.AddDoc), h.AdminDocs.PublishDoc)
		docs.POST("/files/", perm(authz.AddDoc), h.AdminDocs.UploadFile)
		docs.GET("/:doc_id/", perm(authz.ChangeDoc), h.AdminDocs.GetDoc)
		docs.PUT("/:doc_id/", perm(authz.ChangeDoc), h.AdminDocs.EditDoc)
		docs.DELETE("/:doc_id/", perm(authz.DeleteDoc), h.AdminDocs.DeleteDoc)
	}

	courses := admin.Group("/courses")
	{
		courses.GET("/", perm(authz.ViewCourse), h.AdminDocs.ListCourses)
		courses.GET("/options/", perm(authz.AddCourse), h.AdminDocs.CourseOptions)
		courses.POST("/", perm(authz.AddCourse), h.AdminDocs.PublishCourse)
		courses.GET("/:course_id/", perm(authz.ChangeCourse), h.AdminDocs.GetCourse)
		courses.PUT("/:course_id/", perm(authz.ChangeCourse), h.AdminDocs.EditCourse)
		courses.DELETE("/:course_id/", perm(authz.DeleteCourse), h.AdminDocs.DeleteCourse)
	}

	groups := admin.Group("/groups")
	{
		groups.GET("/", perm(authz.ViewGroup), h.Users.ListGroups)
		groups.POST("/", perm(authz.AddGroup), h.Users.CreateGroup)
		groups.GET("/:group_id/", perm(authz.ChangeGroup), h.Users.GetGroup)
		groups.PUT("/:group_id/", perm(authz.ChangeGroup), h.Users.UpdateGroup)
		groups.DELETE("/:group_id/", perm(authz.DeleteGroup), h.Users.DeleteGroup)
	}
	admin.GET("/permissions/", perm(authz.AddGroup), h.Users.ListPermissions)

	au := admin.Group("/users")
	{
		au.GET("/", perm(authz.ViewUsers), h.Users.ListUsers)
		au.GET("/:user_id/", perm(authz.ChangeUsers), h.Users.GetUser)
		au.PUT("/:user_id/", perm(authz.ChangeUsers), h.Users.UpdateUser)
		au.DELETE("/:user_id/", perm(authz.DeleteUsers), h.Users.DeleteUser)
	}

	return r
}
