package validators

import "go.mongodb.org/mongo-driver/bson"

var dateSlot = bson.M{
	"bsonType": "object",
	"required": []string{"booking_date", "booking_time"},
	"properties": bson.M{
		"booking_date": bson.M{"bsonType": "date"},
		"booking_time": bson.M{
			"bsonType": "string",
			"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]$`,
		},
		"group_size": bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
	},
}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"listing_id",
			"guest_id",
			"host_id",
			"category",
			"schedule",
			"pricing",
			"status",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"listing_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"guest_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"host_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"category": bson.M{
				"bsonType": "string",
				"enum":     []string{"home", "experience", "service"},
			},

			"schedule": bson.M{
				"bsonType":      "object",
				"minProperties": 1,
				"maxProperties": 1,
				"properties": bson.M{
					"home": bson.M{
						"bsonType": "object",
						"required": []string{"check_in", "check_out", "guests"},
						"properties": bson.M{
							"check_in":  bson.M{"bsonType": "date"},
							"check_out": bson.M{"bsonType": "date"},
							"guests":    bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
						},
					},
					"experience": dateSlot,
					"service":    dateSlot,
				},
			},

			"pricing": bson.M{
				"bsonType": "object",
				"required": []string{"base_price", "discount_amount", "total_amount"},
				"properties": bson.M{
					"base_price":      bson.M{"bsonType": "decimal", "minimum": 0},
					"discount_amount": bson.M{"bsonType": "decimal", "minimum": 0},
					"total_amount":    bson.M{"bsonType": "decimal", "minimum": 0},
					"coupon_code":     bson.M{"bsonType": []string{"string", "null"}},
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"active",
					"cancel_requested",
					"canceled",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum":     []string{"unpaid", "paid", "refunded"},
			},

			"ledger_error": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
