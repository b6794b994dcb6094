package dblayer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bezaspace/dbtypes"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Past the last code point that can appear in a field value, so a
// [term, term+sentinel] range matches exactly the values with prefix term.
const prefixSentinel = "\uf8ff"

// CreateOrUpdateUserProfile upserts the profile document for an identity.
// Called on every successful sign-in: the first sign-in creates the profile,
// later ones refresh the fields the identity provider owns.  Bio and
// username are user-managed and never touched here.
func (db *DB) CreateOrUpdateUserProfile(ctx context.Context, uid, displayName, email, photoURL string) error {
	ref := db.firestoreClient.Collection(usersCollection).Doc(uid)
	now := time.Now()

	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		profile := &dbtypes.UserProfile{
			UID:         uid,
			DisplayName: displayName,
			Email:       email,
			PhotoURL:    photoURL,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := ref.Create(ctx, profile); err != nil {
			return gatewayErr("creating user profile", err)
		}
		slog.InfoContext(ctx, "Created user profile", slog.String("uid", uid))
		return nil
	}
	if err != nil {
		return gatewayErr("loading user profile", err)
	}

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "displayName", Value: displayName},
		{Path: "email", Value: email},
		{Path: "photoURL", Value: photoURL},
		{Path: "updatedAt", Value: now},
	}, firestore.LastUpdateTime(snap.UpdateTime))
	if err != nil {
		return gatewayErr("updating user profile", err)
	}

	return nil
}

// GetUserProfile returns the profile for uid, or (nil, nil) if the identity
// has never signed in.
func (db *DB) GetUserProfile(ctx context.Context, uid string) (*dbtypes.UserProfile, error) {
	snap, err := db.firestoreClient.Collection(usersCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, gatewayErr("loading user profile", err)
	}

	profile := &dbtypes.UserProfile{}
	if err := snap.DataTo(profile); err != nil {
		return nil, gatewayErr("loading user profile", err)
	}
	profile.UID = snap.Ref.ID

	return profile, nil
}

// UpdateUserProfile applies the non-nil fields of update and stamps
// updatedAt.
func (db *DB) UpdateUserProfile(ctx context.Context, uid string, update *dbtypes.ProfileUpdate) error {
	var updates []firestore.Update
	if update.DisplayName != nil {
		updates = append(updates, firestore.Update{Path: "displayName", Value: *update.DisplayName})
	}
	if update.Bio != nil {
		updates = append(updates, firestore.Update{Path: "bio", Value: *update.Bio})
	}
	if update.Username != nil {
		updates = append(updates, firestore.Update{Path: "username", Value: strings.ToLower(*update.Username)})
	}
	if update.PhotoURL != nil {
		updates = append(updates, firestore.Update{Path: "photoURL", Value: *update.PhotoURL})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})

	ref := db.firestoreClient.Collection(usersCollection).Doc(uid)
	if _, err := ref.Update(ctx, updates); err != nil {
		return gatewayErr("updating user profile", err)
	}

	return nil
}

// SearchUsers finds up to maxResults profiles whose display name matches the
// term as typed, or whose username matches it lowercased, by prefix.  The two
// range queries run against the backend; merging and deduplication happen
// here.  An empty or whitespace-only term returns no results without a
// backend call.
func (db *DB) SearchUsers(ctx context.Context, term string, maxResults int) ([]*dbtypes.UserSearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}

	users := db.firestoreClient.Collection(usersCollection)

	byDisplayName := users.
		Where("displayName", ">=", term).
		Where("displayName", "<=", term+prefixSentinel).
		Limit(maxResults)

	lower := strings.ToLower(term)
	byUsername := users.
		Where("username", ">=", lower).
		Where("username", "<=", lower+prefixSentinel).
		Limit(maxResults)

	var results []*dbtypes.UserSearchResult
	seen := map[string]bool{}

	for _, q := range []firestore.Query{byDisplayName, byUsername} {
		iter := q.Documents(ctx)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, gatewayErr("searching users", err)
			}

			profile := &dbtypes.UserProfile{}
			if err := snap.DataTo(profile); err != nil {
				return nil, gatewayErr("searching users", err)
			}
			profile.UID = snap.Ref.ID

			if seen[profile.UID] {
				continue
			}
			seen[profile.UID] = true
			results = append(results, profile.SearchResult())
		}
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results, nil
}

// GetAllUsers returns every profile, newest first.
func (db *DB) GetAllUsers(ctx context.Context) ([]*dbtypes.UserProfile, error) {
	var profiles []*dbtypes.UserProfile

	iter := db.firestoreClient.Collection(usersCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, gatewayErr("loading users", err)
		}

		profile := &dbtypes.UserProfile{}
		if err := snap.DataTo(profile); err != nil {
			return nil, gatewayErr("loading users", err)
		}
		profile.UID = snap.Ref.ID

		profiles = append(profiles, profile)
	}

	return profiles, nil
}
