package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirajyamin/blink-graphql/internal/models"
)

type userMongoRepository struct {
	coll *mongo.Collection
}

func NewUserMongoRepository(coll *mongo.Collection) UserRepository {
	for _, key := range []string{"email", "phone"} {
		_, _ = coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		})
	}
	return &userMongoRepository{coll: coll}
}

func (r *userMongoRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = primitive.NewObjectID().Hex()
	}
	if u.Verified == nil {
		u.Verified = []string{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.Verified == nil {
		u.Verified = []string{}
	}
	return &u, nil
}

func (r *userMongoRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userMongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func dateRangeFrom(rangeKey string, now time.Time) (time.Time, bool) {
	switch rangeKey {
	case "last_day":
		return now.AddDate(0, 0, -1), true
	case "last_week":
		return now.AddDate(0, 0, -7), true
	case "last_month":
		return now.AddDate(0, -1, 0), true
	case "last_3_months":
		return now.AddDate(0, -3, 0), true
	case "last_6_months":
		return now.AddDate(0, -6, 0), true
	case "last_year":
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func userFilterConditions(f UserFilter) bson.M {
	cond := bson.M{}

	if f.FirstName != "" {
		cond["first_name"] = bson.M{"$regex": primitive.Regex{Pattern: f.FirstName, Options: "i"}}
	}
	if f.Email != "" {
		cond["email"] = bson.M{"$regex": primitive.Regex{Pattern: f.Email, Options: "i"}}
	}
	// exact-match fields
	if f.Role != "" {
		cond["role"] = f.Role
	}
	if f.Status != "" {
		cond["status"] = f.Status
	}
	if f.Experience != "" {
		cond["experience"] = f.Experience
	}
	if len(f.Verified) > 0 {
		cond["verified"] = bson.M{"$in": f.Verified}
	}
	if len(f.Skills) > 0 {
		cond["skills"] = bson.M{"$in": f.Skills}
	}
	if from, ok := dateRangeFrom(f.DateRange, time.Now().UTC()); ok {
		cond["created_at"] = bson.M{"$gte": from, "$lte": time.Now().UTC()}
	}

	return cond
}

func (r *userMongoRepository) Find(ctx context.Context, f UserFilter, opt ListOptions) ([]*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sortField := opt.SortField
	if sortField == "" {
		sortField = "created_at"
	}
	order := 1
	if opt.SortOrder == "desc" {
		order = -1
	}

	findOpts := options.Find().SetSort(bson.D{{Key: sortField, Value: order}})
	if opt.Limit > 0 {
		findOpts.SetLimit(int64(opt.Limit))
		if opt.Page > 1 {
			findOpts.SetSkip(int64((opt.Page - 1) * opt.Limit))
		}
	}

	cur, err := r.coll.Find(ctx, userFilterConditions(f), findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.User{}
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		if u.Verified == nil {
			u.Verified = []string{}
		}
		out = append(out, &u)
	}
	return out, cur.Err()
}

func (r *userMongoRepository) Count(ctx context.Context, f UserFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, userFilterConditions(f))
}

func (r *userMongoRepository) FindBySkill(ctx context.Context, skillID string) ([]*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "is_featured", Value: -1},
		{Key: "rating", Value: -1},
	})
	cur, err := r.coll.Find(ctx, bson.M{"skills": skillID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.User{}
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, cur.Err()
}

func (r *userMongoRepository) Update(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u.UpdatedAt = time.Now().UTC()
	res := r.coll.FindOneAndReplace(
		ctx,
		bson.M{"_id": u.ID},
		u,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	)
	var updated models.User
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *userMongoRepository) SetOTP(ctx context.Context, id, code string, expiry, createdAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"otp":                   code,
		"otp_expiry":            expiry,
		"otp_created_at":        createdAt,
		"verification_attempts": 0,
		"updated_at":            time.Now().UTC(),
	}})
	return err
}

func (r *userMongoRepository) ClearOTP(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"otp": "", "otp_expiry": "", "otp_created_at": ""},
		"$set":   bson.M{"verification_attempts": 0, "updated_at": time.Now().UTC()},
	})
	return err
}

func (r *userMongoRepository) AddVerifiedChannel(ctx context.Context, id, channel string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$addToSet": bson.M{"verified": channel},
			"$unset":    bson.M{"otp": "", "otp_expiry": "", "otp_created_at": ""},
			"$set":      bson.M{"verification_attempts": 0, "updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var u models.User
	if err := res.Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userMongoRepository) SetCredentials(ctx context.Context, id, salt, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"salt":       salt,
		"password":   hash,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (r *userMongoRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
