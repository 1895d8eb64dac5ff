package directory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/craftingshard/tour-website-sub000/db"
	"github.com/craftingshard/tour-website-sub000/models"
	"github.com/craftingshard/tour-website-sub000/rbac"
	"github.com/craftingshard/tour-website-sub000/rdx"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotStaff         = errors.New("no directory record")
)

// Directory records change rarely; a session-length cache keeps staff
// operations from hitting Mongo on every request.
const cacheTTL = 15 * time.Minute

// Lookup resolves a uid to its directory record, consulting the Redis
// cache first. A missing record is reported as ErrNotStaff.
func Lookup(ctx context.Context, uid string) (*models.AdminUser, error) {
	if cached, ok := rdx.RdxGet("dir:" + uid); ok {
		var u models.AdminUser
		if err := json.Unmarshal([]byte(cached), &u); err == nil {
			return &u, nil
		}
	}

	var u models.AdminUser
	err := db.AdminUsersCollection.FindOne(ctx, bson.M{"uid": uid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotStaff
	}
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		rdx.RdxSet("dir:"+uid, string(data), cacheTTL)
	}
	return &u, nil
}

// Invalidate drops the cached record, e.g. after a role change.
func Invalidate(uid string) {
	rdx.RdxDel("dir:" + uid)
}

// Authorize resolves the caller and consults the permission matrix.
// Every staff mutation goes through here before touching the store.
func Authorize(ctx context.Context, uid string, action rbac.Action, resource string) (*models.AdminUser, error) {
	user, err := Lookup(ctx, uid)
	if err != nil {
		if err == ErrNotStaff {
			return nil, ErrPermissionDenied
		}
		return nil, err
	}
	if !rbac.HasPermission(user, action, resource) {
		return nil, ErrPermissionDenied
	}
	return user, nil
}
