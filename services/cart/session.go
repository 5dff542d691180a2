package cart

import (
	"net/http"

	"github.com/MarcGrol/cartcheckout/lib/myuuid"
)

const sessionCookieName = "cart_session"

// SessionFromRequest returns the session of the browser, starting a new one when the cookie is absent or invalid.
func SessionFromRequest(w http.ResponseWriter, r *http.Request, uuider myuuid.UUIDer) Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && myuuid.IsValid(cookie.Value) {
		return Session{UID: cookie.Value}
	}

	session := Session{UID: uuider.Create()}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.UID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session
}

func SessionCookie(session Session) *http.Cookie {
	return &http.Cookie{
		Name:  sessionCookieName,
		Value: session.UID,
		Path:  "/",
	}
}
