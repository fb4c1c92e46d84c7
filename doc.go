// Package talentdex provides an in-process Go client for the talentdex
// professional search engine.
//
// The client filters a roster with AND-of-OR fuzzy badge queries and ranks
// the result alphabetically, by relevance, by distance to a reference
// city, or by availability. Distances are geocoded on demand and cached.
//
//	client, _ := talentdex.New(
//	    talentdex.WithProfessionals(pros),
//	    talentdex.WithGazetteer(map[string]talentdex.Coordinates{
//	        "Budapest": {Lat: 47.4979, Lon: 19.0402},
//	        "Vienna":   {Lat: 48.2082, Lon: 16.3738},
//	    }),
//	)
//	defer client.Close()
//
//	page, _ := client.Search(ctx, talentdex.SearchQuery{
//	    Groups:    []talentdex.Group{{ID: "tech", Badges: []string{"rust", "go"}}},
//	    Mode:      talentdex.ModeDistance,
//	    Reference: "Vienna",
//	})
//
// Career blobs, the compact stored form of work history and education,
// are converted with DecodeCareer and EncodeCareer.
package talentdex
