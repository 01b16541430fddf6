package validators

import "go.mongodb.org/mongo-driver/bson"

var ListingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"host_id", "category", "rate"},
		"additionalProperties": true,
		"properties": bson.M{
			"host_id":  bson.M{"bsonType": "string", "minLength": 1},
			"category": bson.M{"bsonType": "string", "enum": []string{"home", "experience", "service"}},
			"rate":     bson.M{"bsonType": "decimal", "minimum": 0},
			"capacity": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
		},
	},
}
