/*
Package status owns raw file I/O and progress reporting for deemoji.

	            +-------------+
	            |   Status    |
	            |  (Manager)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|   Files   |           | Progress |
	| (I/O)     |           | (UI/UX)  |
	+-----------+           +----------+

🎯 Purpose:
- Reads and atomically rewrites target files
- Reports "processing file i of n" while a batch runs
- Tracks the outcome of every file (cleaned, unchanged, skipped, failed)

🔄 Flow:
1. operation starts a run with the size of the file set
2. each file is read, cleaned and written back through the FileManager
3. progress and per file outcomes are reported through the StatusReporter
4. the run is finished, stopping the progress bar if one is drawn

🤝 Interfaces:
- FileManager: file system access
- StatusReporter: progress and outcome reporting
- FileFormatter: message formatting

📝 Writes keep the permission bits of the file they replace and never leave a
partially written target behind: content goes to a sibling temp file which is
renamed into place.

🔍 Example:

	mgr := status.New(zerolog.Ctx(ctx)).WithProgressBar(os.Stderr)

	mgr.StartOperation(ctx, len(files))
	for i, file := range files {
		content, err := mgr.ReadFile(ctx, file)
		// ...
		mgr.UpdateProgress(ctx, i+1, file)
	}
	mgr.FinishOperation(ctx)
*/
package status
