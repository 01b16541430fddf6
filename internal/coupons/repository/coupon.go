package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	couponserrors "staybook/internal/coupons/errors"
	"staybook/pkg/config"
	mongotx "staybook/pkg/db/mongo"
	"staybook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Coupons"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	FindByID(ctx context.Context, id string) (*model.Coupon, error)
	FindByCode(ctx context.Context, hostID, code string) (*model.Coupon, error)
	FindByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Coupon, error)
	CountByHost(ctx context.Context, hostID string) (int64, error)
	Replace(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id, hostID string) error

	// Redeem adds guestID to used_by in one conditional write that only
	// matches an active, unexpired coupon the guest has not used yet.
	Redeem(ctx context.Context, hostID, code, guestID string, now time.Time) (*model.Coupon, error)
}

type mongoCouponRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCouponRepository(cfg *config.Config) CouponRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCouponRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", couponserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoCouponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	coupon.CreatedAt = now
	coupon.UpdatedAt = now
	if coupon.UsedBy == nil {
		coupon.UsedBy = []string{}
	}

	result, err := r.collection.InsertOne(ctx, coupon)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", couponserrors.ErrDuplicateCode, coupon.Code)
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		coupon.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCouponRepository) FindByID(ctx context.Context, id string) (*model.Coupon, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": oid}, id)
}

func (r *mongoCouponRepository) FindByCode(ctx context.Context, hostID, code string) (*model.Coupon, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"host_id": hostID, "code": code}, code)
}

func (r *mongoCouponRepository) findOne(ctx context.Context, filter bson.M, ref string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.collection.FindOne(ctx, filter).Decode(&coupon); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", couponserrors.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}
	return &coupon, nil
}

func (r *mongoCouponRepository) FindByHost(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Coupon, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"host_id": hostID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer cursor.Close(ctx)

	coupons := make([]*model.Coupon, 0)
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("failed to decode coupons: %w", err)
	}
	return coupons, nil
}

func (r *mongoCouponRepository) CountByHost(ctx context.Context, hostID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"host_id": hostID})
	if err != nil {
		return 0, fmt.Errorf("failed to count coupons: %w", err)
	}
	return count, nil
}

// Replace writes the editable fields; used_by and created_at are never
// overwritten so a concurrent redemption is not lost.
func (r *mongoCouponRepository) Replace(ctx context.Context, coupon *model.Coupon) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(coupon.ID)
	if err != nil {
		return err
	}

	coupon.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"code":           coupon.Code,
		"discount_type":  coupon.DiscountType,
		"discount_value": coupon.DiscountValue,
		"is_active":      coupon.IsActive,
		"updated_at":     coupon.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if coupon.ExpiresAt != nil {
		set["expires_at"] = coupon.ExpiresAt
	} else {
		update["$unset"] = bson.M{"expires_at": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid, "host_id": coupon.HostID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", couponserrors.ErrDuplicateCode, coupon.Code)
		}
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", couponserrors.ErrNotFound, coupon.ID)
	}
	return nil
}

func (r *mongoCouponRepository) Delete(ctx context.Context, id, hostID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "host_id": hostID})
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", couponserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoCouponRepository) Redeem(ctx context.Context, hostID, code, guestID string, now time.Time) (*model.Coupon, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"host_id":   hostID,
		"code":      code,
		"is_active": true,
		"used_by":   bson.M{"$ne": guestID},
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": now}},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{"used_by": guestID},
		"$set":      bson.M{"updated_at": now.UTC().Truncate(time.Millisecond)},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var coupon model.Coupon
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&coupon); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", couponserrors.ErrNotRedeemable, code)
		}
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}
	return &coupon, nil
}
