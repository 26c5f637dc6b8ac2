package discord

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/trinity-login/internal/utils"
)

const (
	// Users still on the four digit discriminator pick one of five images.
	legacyDefaultAvatarCount = 5
	// Users on unique usernames (discriminator "0") pick one of six, keyed on
	// the snowflake timestamp bits.
	defaultAvatarCount = 6
	snowflakeShift     = 22
)

// User is the subset of GET /users/@me that the login flow reads.
type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	GlobalName    *string `json:"global_name"`
	Discriminator string  `json:"discriminator"`
	// Avatar is the avatar hash; null when the user never uploaded one.
	Avatar *string `json:"avatar"`
}

// DefaultAvatarIndex picks the embed avatar for a user without an avatar
// hash. The same user always maps to the same index.
func (u User) DefaultAvatarIndex() int {
	disc := strings.TrimSpace(u.Discriminator)
	n, err := strconv.Atoi(disc)
	switch {
	case err == nil && n > 0:
		return n % legacyDefaultAvatarCount
	case disc == "" || (err == nil && n == 0):
		id, err := strconv.ParseUint(strings.TrimSpace(u.ID), 10, 64)
		if err != nil {
			return 0
		}
		return int((id >> snowflakeShift) % defaultAvatarCount)
	default:
		return 0
	}
}

// AvatarURL returns the CDN image for the user: the uploaded avatar when a
// hash is present, otherwise the default embed avatar.
func (u User) AvatarURL(cdnBaseURL string) string {
	base := strings.TrimRight(cdnBaseURL, "/")
	if hash := strings.TrimSpace(utils.Value(u.Avatar)); hash != "" {
		return fmt.Sprintf("%s/avatars/%s/%s.png", base, url.PathEscape(u.ID), url.PathEscape(hash))
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", base, u.DefaultAvatarIndex())
}
