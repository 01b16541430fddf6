package validators

import "go.mongodb.org/mongo-driver/bson"

var CouponValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"host_id",
			"code",
			"discount_type",
			"discount_value",
			"is_active",
			"used_by",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},
			"host_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},
			"code": bson.M{
				"bsonType": "string",
				"pattern":  `^[A-Z0-9][A-Z0-9_-]{2,31}$`,
			},
			"discount_type": bson.M{
				"bsonType": "string",
				"enum":     []string{"percentage", "fixed"},
			},
			"discount_value": bson.M{
				"bsonType": "decimal",
				"minimum":  0,
			},
			"is_active": bson.M{
				"bsonType": "bool",
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
			// set semantics are kept by $addToSet
			"used_by": bson.M{
				"bsonType":    "array",
				"uniqueItems": true,
				"items":       bson.M{"bsonType": "string"},
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
