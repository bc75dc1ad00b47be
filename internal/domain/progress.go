package domain

// ProgressFunc reports crawl progress to the CLI.
// Called repeatedly while tags are read: (250, 0), (500, 3), ...
type ProgressFunc func(read, skipped int)
