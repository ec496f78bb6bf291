// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

/*
Package zipaura provides browsing, extract, pack and edit operations for
ZIP archives and read-only access to RAR and 7z archives. Archives store a
flat list of slash-delimited names; the package synthesizes a folder view
(listing, breadcrumbs, back navigation) from that list.

Editing rules (summary):
  - ZIP has no in-place delete, every commit rebuilds the archive;
  - untouched entries are raw-copied without recompression;
  - new entries use PackOptions.Method unless a Store rule matches or the
    input is smaller than MinCompressSize;
  - the previous archive is kept as "<archive>.bak" until the rebuild succeeds.

# Reading

Open any supported archive and list or read entries:

	a, err := zipaura.Open("mods.zip")
	if err != nil {
	    return err
	}
	defer a.Close()
	for _, e := range a.Entries() {
	    data, _ := a.ReadEntry(e.Path)
	    // use data
	}

Encrypted RAR or 7z archives need a password:

	a, err := zipaura.OpenWithOptions("data.7z", zipaura.OpenOptions{Password: "secret"})

# Folders

Project the flat namelist into one folder level:

	nodes, err := zipaura.Project(a.Entries(), "textures/ui")
	if err != nil {
	    return err
	}
	for _, n := range nodes {
	    // folders first; n.Size of a folder is the total of its files
	}

Session combines an archive snapshot with a Navigator for interactive use:

	s := zipaura.NewSession(zipaura.SessionOptions{})
	if err := s.OpenArchive("mods.zip"); err != nil {
	    return err
	}
	_ = s.Cd("textures")
	nodes, _ := s.List()
	_, _ = s.Back()

# Extracting

Extract all entries to a directory (parallel workers for ZIP and 7z):

	if err := zipaura.Extract(ctx, a, "out/", zipaura.ExtractOptions{MaxWorkers: 4}); err != nil {
	    return err
	}

Extract one folder with its contents placed at the destination root:

	err := zipaura.Extract(ctx, a, "out/", zipaura.ExtractOptions{
	    Prefix:      "textures/ui",
	    StripPrefix: true,
	})

# Packing

Pack stream-oriented inputs; examples use github.com/woozymasta/pathrules
for store rules:

	inputs := []zipaura.Input{
	    {Path: "config.json", Open: func() (io.ReadCloser, error) { return os.Open("src/config.json") }},
	}
	res, err := zipaura.PackFile(ctx, "bundle.zip", inputs, zipaura.PackOptions{
	    Method: zipaura.MethodZstd,
	    Store: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.png"},
	    },
	})

To edit an existing archive in one transaction:

	editor, err := zipaura.OpenEditor("bundle.zip", zipaura.EditOptions{BackupKeep: 1})
	if err != nil {
	    return err
	}
	if err := editor.DeleteDir("cache"); err != nil {
	    return err
	}
	if _, err := editor.Commit(ctx); err != nil {
	    return err
	}
*/
package zipaura
