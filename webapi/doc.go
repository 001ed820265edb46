// Package webapi provides a client for the cuwo server web API.
//
// The web API is published by the cuwo "webapi" server script. It answers JSON on a
// dedicated port (12350 by default) and protects every endpoint except the version
// endpoint with a shared key passed in the "key" query parameter.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := webapi.NewClient("secret", "127.0.0.1", logger,
//		webapi.WithPort(12350),
//		webapi.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	status, err := client.Status(ctx)
//	player, err := client.Player(ctx, "Xharon", webapi.IncludeEquipment|webapi.IncludeSkills)
//	ok, err := client.SetTime(ctx, "16:05")
//
// Each call performs exactly one HTTP round trip. Nothing is retried or cached.
//
// # Error Handling
//
// Every failure is an *APIError carrying a Kind. The server reports failures as
// {"error": code} bodies which map to:
//
//	-1  KindUnauthorized     ErrUnauthorized
//	-2  KindInvalidResource  ErrInvalidResource
//	-3  KindInvalidPlayer    ErrInvalidPlayer
//	-4  KindInvalidTime      ErrInvalidTime
//	-5  KindInvalidMethod    ErrInvalidMethod
//
// Other codes produce KindUnknownServerError with the raw code preserved. Network
// failures produce KindTransport and responses lacking an expected field produce
// KindMalformedResponse. The sentinels work with errors.Is:
//
//	if _, err := client.Kick(ctx, name); errors.Is(err, webapi.ErrInvalidPlayer) {
//		// player already left
//	}
package webapi
