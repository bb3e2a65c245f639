package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// nearFilter builds a $near clause over a 2dsphere-indexed "location" field.
// Results come back ordered nearest first; $maxDistance is in meters.
func nearFilter(center domain.GeoPoint, maxDistanceMeters float64) bson.M {
	return bson.M{
		"$near": bson.M{
			"$geometry": bson.M{
				"type":        domain.GeoTypePoint,
				"coordinates": bson.A{center.Lng(), center.Lat()},
			},
			"$maxDistance": maxDistanceMeters,
		},
	}
}

// notOrigin excludes documents still carrying a [0,0] placeholder.
var notOrigin = bson.M{"$ne": bson.A{0.0, 0.0}}

func nearWorkersFilter(q ports.NearQuery) bson.M {
	filter := bson.M{
		"location":             nearFilter(q.Center, q.MaxDistanceMeters),
		"location.coordinates": notOrigin,
		"account_status":       domain.AccountActive,
		"is_active":            true,
	}
	if q.ExcludeUserID != "" {
		filter["_id"] = bson.M{"$ne": q.ExcludeUserID}
	}
	return filter
}

func nearTasksFilter(q ports.NearQuery) bson.M {
	return bson.M{
		"location":             nearFilter(q.Center, q.MaxDistanceMeters),
		"location.coordinates": notOrigin,
		"status":               domain.TaskActive,
	}
}

// containsFilter is a case-insensitive partial match across fields.
func containsFilter(term string, fields ...string) bson.A {
	pattern := bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: pattern})
	}
	return or
}

func listTasksFilter(f ports.ListTasksFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PostedBy != "" {
		filter["posted_by"] = f.PostedBy
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		filter["$or"] = containsFilter(f.Search, "description", "category")
	}
	return filter
}

func listTasksSort(sort string) bson.D {
	if sort == ports.TaskSortPopular {
		return bson.D{{Key: "views", Value: -1}, {Key: "created_at", Value: -1}}
	}
	return bson.D{{Key: "created_at", Value: -1}}
}

func listUsersFilter(f ports.ListUsersFilter) bson.M {
	filter := bson.M{}
	if f.AccountStatus != "" {
		filter["account_status"] = f.AccountStatus
	}
	if f.Search != "" {
		filter["$or"] = containsFilter(f.Search, "username", "email", "full_name")
	}
	return filter
}

// profileUpdate turns the non-nil fields of u into a $set document.
func profileUpdate(u ports.ProfileUpdate) bson.M {
	set := bson.M{}
	if u.FullName != nil {
		set["full_name"] = *u.FullName
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Bio != nil {
		set["bio"] = *u.Bio
	}
	if u.ProfilePicture != nil {
		set["profile_picture"] = *u.ProfilePicture
	}
	if u.Skills != nil {
		set["skills"] = u.Skills
	}
	if u.HourlyRate != nil {
		set["hourly_rate"] = *u.HourlyRate
	}
	return set
}
