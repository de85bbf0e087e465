package middlewares

import (
	"github.com/dorfnet/dorfnet/model"
	Logger "github.com/dorfnet/dorfnet/utils/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const viewerContextKey = "viewer"

// Viewer resolves the request's viewer identity. Authentication itself is
// owned by the upstream verifier, which validates the session and injects
// the subject id in the "sub" header; this middleware only loads the matching
// user row so downstream handlers get the viewer and their village scope in
// one place. Requests without a resolvable subject proceed as anonymous:
// reads are allowed, mutations reject them before touching storage.
func Viewer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := c.Request.Header.Get("sub")
		if sub == "" {
			c.Next()
			return
		}

		var user model.User
		res := db.Where("id = ?", sub).First(&user)
		if res.Error != nil {
			// An unknown subject is not an auth failure at this layer, the
			// verifier upstream already vouched for the token. Log and fall
			// back to anonymous.
			Logger.Log.Warn("subject from verifier has no user row: ", sub)
			c.Next()
			return
		}

		c.Set(viewerContextKey, &user)
		c.Next()
	}
}

// CurrentViewer returns the resolved viewer, or nil for anonymous requests.
func CurrentViewer(c *gin.Context) *model.User {
	value, ok := c.Get(viewerContextKey)
	if !ok {
		return nil
	}
	viewer, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return viewer
}
