// Package transfer sequences a single-file download: probe the source,
// choose a fetch strategy from the advertised capabilities, stream the
// body to disk and verify it against the server's validation token.
//
// An [Orchestrator] runs each attempt under a [retry.Policy] and reports
// progress through a [Reporter]:
//
//	c, _ := client.Build(client.WithTimeout(time.Minute))
//	o, _ := transfer.New(c,
//		transfer.WithReporter(transfer.NewConsoleReporter(os.Stdout)),
//		transfer.WithRetry(retry.Policy{MaxAttempts: 2}),
//	)
//	req, _ := transfer.NewRequest("https://example.com/a/file.bin", ".")
//	res, err := o.Run(ctx, req)
//
// Every attempt carries a UUID that appears in logs, spans and the
// [Result].
package transfer
