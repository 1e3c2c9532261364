// Package output collects per-file compiler artifacts, folds the generated source
// maps through the maps of earlier pipeline stages and releases finished files to
// the output channels.
//
// A Run holds every piece of per-run state. Submissions for one logical output file
// (key = path without extension) accumulate until the run's required kinds are all
// present; the file is then composed once and, depending on Config.SortOutput,
// emitted immediately or during Finish in reference order.
//
//	run := output.NewRun(cfg, files, code, decl, output.Options{})
//	_ = run.Write("out/a.js", js)
//	_ = run.Write("out/a.js.map", mapJSON)
//	_ = run.Finish()
package output
