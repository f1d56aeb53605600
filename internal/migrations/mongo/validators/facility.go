package validators

import "go.mongodb.org/mongo-driver/bson"

// hhmm matches the "HH:MM" opening and closing times.
const hhmm = `^([01][0-9]|2[0-3]):[0-5][0-9]$`

var FacilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"name",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"type": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"capacity": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"opens_at": bson.M{
				"bsonType": "string",
				"pattern":  hhmm,
			},

			"closes_at": bson.M{
				"bsonType": "string",
				"pattern":  hhmm,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
