package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"photo-archive/internal/apiclient"
	"photo-archive/internal/gallery"
)

const defaultServerURL = "http://localhost:8080"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	args := os.Args[2:]

	// Cancel outstanding requests on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	serverURL := os.Getenv("ARCHIVE_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	client := apiclient.New(serverURL)

	var err error
	switch command {
	case "albums":
		err = listAlbums(ctx, client)
	case "create-album":
		err = createAlbum(ctx, client, args)
	case "upload":
		err = upload(ctx, client, args)
	case "browse":
		err = browse(ctx, client, args)
	case "delete-image":
		err = deleteImage(ctx, client, args)
	case "delete-album":
		err = deleteAlbum(ctx, client, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: archivectl <command> [options]

Commands:
  albums                          list all albums
  create-album <name>             create an album
  upload -album <id> <file>...    upload files to an album
  browse -album <id>              page through an album's items
  delete-image -album <id> <imageId>
                                  delete one item
  delete-album <id>               delete an empty album

The server address is taken from ARCHIVE_URL (default %s).
`, defaultServerURL)
}

func listAlbums(ctx context.Context, client *apiclient.Client) error {
	albums, err := client.ListAlbums(ctx)
	if err != nil {
		return err
	}
	if len(albums) == 0 {
		fmt.Println("No albums.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tIMAGES\tCREATED\tCOVER")
	for _, a := range albums {
		cover := "-"
		if a.CoverKey != nil {
			cover = *a.CoverKey
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			a.ID, a.Name, a.ImageCount, a.CreatedAt.Format("2006-01-02 15:04"), cover)
	}
	return w.Flush()
}

func createAlbum(ctx context.Context, client *apiclient.Client, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("usage: archivectl create-album <name>")
	}
	album, err := client.CreateAlbum(ctx, name)
	if err != nil {
		return err
	}
	fmt.Printf("Created album %d: %s\n", album.ID, album.Name)
	return nil
}

func upload(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	albumID := fs.Int64("album", 0, "album id to upload into")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *albumID < 1 || fs.NArg() == 0 {
		return fmt.Errorf("usage: archivectl upload -album <id> <file>...")
	}

	uploads := make([]apiclient.Upload, 0, fs.NArg())
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		// The server extracts capture timestamps from the file itself.
		uploads = append(uploads, apiclient.Upload{
			Filename: filepath.Base(path),
			Data:     data,
		})
	}

	fmt.Printf("Uploading %d files to album %d...\n", len(uploads), *albumID)
	result, err := client.UploadImages(ctx, *albumID, uploads)
	if err != nil {
		return err
	}

	failed := make(map[string]string, len(result.Errors))
	for _, e := range result.Errors {
		failed[e.Filename] = e.Error
	}
	for _, up := range uploads {
		if reason, ok := failed[up.Filename]; ok {
			fmt.Printf("  error  %s (%s)\n", up.Filename, reason)
		} else {
			fmt.Printf("  done   %s\n", up.Filename)
		}
	}
	fmt.Printf("%d succeeded, %d failed\n", result.Succeeded, result.Failed)
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", result.Failed, len(uploads))
	}
	return nil
}

func browse(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	albumID := fs.Int64("album", 0, "album id to browse")
	pageSize := fs.Int("page-size", gallery.DefaultPageSize, "items per page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *albumID < 1 {
		return fmt.Errorf("usage: archivectl browse -album <id>")
	}

	album, err := client.GetAlbum(ctx, *albumID)
	if err != nil {
		return err
	}
	fmt.Printf("Album %d: %s (%d images)\n", album.ID, album.Name, album.ImageCount)

	state := gallery.NewState()
	fetcher := gallery.NewFetcher(state, client, *pageSize)
	fetcher.Reset(ctx, *albumID)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tFILENAME\tKIND\tCAPTURED\tSIZE")
	printed := 0
	for {
		items := state.Items()
		for ; printed < len(items); printed++ {
			item := items[printed]
			captured := "-"
			if item.TakenAt != nil {
				captured = item.TakenAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%d\n",
				printed, item.ID, item.Filename, item.MediaKind, captured, item.Size)
		}
		if !state.HasMore() {
			break
		}
		if !fetcher.RequestNext(ctx) {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return w.Flush()
}

func deleteImage(ctx context.Context, client *apiclient.Client, args []string) error {
	fs := flag.NewFlagSet("delete-image", flag.ExitOnError)
	albumID := fs.Int64("album", 0, "album the image belongs to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *albumID < 1 || fs.NArg() != 1 {
		return fmt.Errorf("usage: archivectl delete-image -album <id> <imageId>")
	}
	imageID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid image id %q", fs.Arg(0))
	}

	if err := client.DeleteImage(ctx, *albumID, imageID); err != nil {
		return err
	}
	fmt.Printf("Deleted image %d from album %d\n", imageID, *albumID)
	return nil
}

func deleteAlbum(ctx context.Context, client *apiclient.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: archivectl delete-album <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid album id %q", args[0])
	}

	if err := client.DeleteAlbum(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted album %d\n", id)
	return nil
}
