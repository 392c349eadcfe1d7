// Package gracenote provides a client library for the Gracenote Web API.
//
// # Overview
//
// This package implements the XML flavour of the Gracenote Web API for
// album search, direct album fetch, table-of-contents lookup and artist
// origin/era/type (OET) retrieval. Responses are decoded into a small
// normalized model: albums, tracks and ordered taxonomy levels.
//
// # Installation
//
//	go get github.com/jfmyers9/gnlookup/pkg/gracenote
//
// # Quick Start
//
// Create a client with the client ID and tag from your Gracenote
// developer account:
//
//	client, err := gracenote.NewClient(gracenote.Config{
//	    ClientID:  "1234567",
//	    ClientTag: "ABCDEF0123456789",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Registration
//
// Every query is made on behalf of a user ID. The first query registers
// one automatically, but each registration counts against the client's
// user limit, so store the ID and hand it back next time:
//
//	userID, err := client.Register(ctx, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Persist userID, then later:
//	client.Register(ctx, userID)
//
// # Queries
//
//	albums, err := client.SearchTrack(ctx, "Muse", "Absolution", "Hysteria", gracenote.BestMatchOnly)
//	albums, err = client.SearchArtist(ctx, "Muse", gracenote.AllResults)
//	albums, err = client.FetchAlbum(ctx, "97474325-8C600B4A2C3FD6AC7FE2C0A4F2B0E1E5")
//	albums, err = client.AlbumTOC(ctx, "150 20512 30837 50912 64107 78357 90537 110742 126817 144657")
//	oet, err := client.FetchOETData(ctx, albumID)
//
// A query that matches nothing returns an empty slice and a nil error.
//
// Albums in a search response that lack inline OET data trigger one extra
// OET-only fetch each, so a search may cost more than one round trip.
//
// # Error Handling
//
// Failures are *Error values carrying a Kind. Match them with errors.Is
// against the exported sentinels, or read the details with errors.As:
//
//	albums, err := client.FetchAlbum(ctx, id)
//	if errors.Is(err, gracenote.ErrRequestTimeout) {
//	    // The caller decides whether to retry.
//	}
//	var gnErr *gracenote.Error
//	if errors.As(err, &gnErr) && gnErr.Kind == gracenote.KindAPIResponseError {
//	    fmt.Println("service said:", gnErr.Message)
//	}
//
// The client never retries on its own.
//
// # Configuration
//
//	client, err := gracenote.NewClient(gracenote.Config{
//	    ClientID:  "1234567",
//	    ClientTag: "ABCDEF0123456789",
//	    UserID:    "saved-user-id",
//	    Timeout:   5 * time.Second,
//	    Debug:     true,
//	    Logger:    myLogger, // Implements gracenote.Logger
//	})
package gracenote
