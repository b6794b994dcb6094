package dblayer

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"bezaspace/auth"
	"bezaspace/dbtypes"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/iterator"
)

// SessionLifetime is how long a session stays valid after sign-in.  Expiry
// is enforced on read; anything holding per-session state can also use it as
// an upper bound on how long that state can matter.
const SessionLifetime = 18 * time.Hour

// SessionFromGoogleFederation signs in a user based on a Google identity
// token returned from the "Sign in with Google" process.  The profile
// document is upserted before the session is stored, so a profile exists by
// the time any handler runs under the new session.
func (db *DB) SessionFromGoogleFederation(ctx context.Context, idToken string) (*dbtypes.Session, error) {
	payload, err := idtoken.Validate(ctx, idToken, db.googleOAuthClientID)
	if err != nil {
		return nil, fmt.Errorf("while validating ID token: %w", err)
	}

	uid := payload.Subject
	displayName, _ := payload.Claims["name"].(string)
	email, _ := payload.Claims["email"].(string)
	photoURL, _ := payload.Claims["picture"].(string)

	if err := db.CreateOrUpdateUserProfile(ctx, uid, displayName, email, photoURL); err != nil {
		return nil, fmt.Errorf("while upserting profile for %s: %w", uid, err)
	}

	sessionCookieBytes := make([]byte, 32)
	if _, err := rand.Read(sessionCookieBytes); err != nil {
		return nil, fmt.Errorf("while generating session cookie: %w", err)
	}

	session := &dbtypes.Session{
		Cookie:  base64.StdEncoding.EncodeToString(sessionCookieBytes),
		UID:     uid,
		Expires: time.Now().Add(SessionLifetime),
	}
	if _, _, err := db.firestoreClient.Collection(sessionsCollection).Add(ctx, session); err != nil {
		return nil, fmt.Errorf("while storing session cookie: %w", err)
	}

	return session, nil
}

// IdentityFromSessionCookie looks up a session from its cookie, and then
// returns the identity of the signed-in user.  A missing or expired session
// yields (nil, nil).
func (db *DB) IdentityFromSessionCookie(ctx context.Context, cookie string) (*auth.Identity, error) {
	var sessionSnapshot *firestore.DocumentSnapshot
	sessionIter := db.firestoreClient.Collection(sessionsCollection).Where("cookie", "==", cookie).Documents(ctx)
	defer sessionIter.Stop()
	for {
		var err error
		sessionSnapshot, err = sessionIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while looking up session: %w", err)
		}

		// We only consider a single session.
		break
	}
	if sessionSnapshot == nil {
		slog.InfoContext(ctx, "No signed-in user because no session matched the cookie")
		return nil, nil
	}

	session := &dbtypes.Session{}
	if err := sessionSnapshot.DataTo(session); err != nil {
		return nil, fmt.Errorf("while unmarshaling session: %w", err)
	}

	if session.Expires.Before(time.Now()) {
		slog.InfoContext(ctx, "No signed-in user because the session was expired")
		return nil, nil
	}

	profile, err := db.GetUserProfile(ctx, session.UID)
	if err != nil {
		return nil, fmt.Errorf("while loading profile linked from session: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("session for uid %s has no profile", session.UID)
	}

	return &auth.Identity{
		UID:         profile.UID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
		PhotoURL:    profile.PhotoURL,
	}, nil
}

// DeleteSession deletes a session by its cookie.
func (db *DB) DeleteSession(ctx context.Context, cookie string) error {
	sessionIter := db.firestoreClient.Collection(sessionsCollection).Where("cookie", "==", cookie).Documents(ctx)
	defer sessionIter.Stop()
	for {
		sessionSnapshot, err := sessionIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("while looking up session: %w", err)
		}

		_, err = sessionSnapshot.Ref.Delete(ctx, firestore.LastUpdateTime(sessionSnapshot.UpdateTime))
		if err != nil {
			return fmt.Errorf("while deleting session: %w", err)
		}
	}

	return nil
}
