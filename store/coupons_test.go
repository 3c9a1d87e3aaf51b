package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestConsumeMissDistinguishesMissingFromExhausted(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown code is not found", func(mt *mtest.T) {
		s := &Coupons{col: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, "marketplace.coupons", mtest.FirstBatch),
		)

		err := s.Consume(context.Background(), "ghost")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("code at its limit is exhausted", func(mt *mtest.T) {
		s := &Coupons{col: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(1, "marketplace.coupons", mtest.FirstBatch, bson.D{
				{Key: "code", Value: "FULL"},
				{Key: "used_count", Value: 5},
				{Key: "usage_limit", Value: 5},
			}),
		)

		err := s.Consume(context.Background(), "full")
		assert.ErrorIs(mt, err, ErrCouponExhausted)
	})
}
