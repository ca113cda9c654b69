// Package placesearch embeds the place filtering and nearest-match engine
// in a Go program, without running the HTTP service.
//
//	client, err := placesearch.New(ctx,
//	    placesearch.WithCSV("places.csv"),
//	    placesearch.WithGazetteer("postcodes.json"),
//	)
//	res, _ := client.Search(ctx, placesearch.Query{Category: "Coffee", Region: "QLD"})
//	near, _ := client.Search(ctx, placesearch.Query{Location: "Sydney, 2000"})
//
// Results in proximity mode carry DistanceKm; region/category results keep
// dataset order.
package placesearch
