// Command server runs the gophblog document service.
//
//	server [flags]                      serve gRPC
//	server token [-sub name] [flags]    print an access token
//	server publish -text ... [flags]    store a post, optionally -upload <file>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/buildinfo"
	"github.com/dmitrijs2005/gophblog/internal/flagx"
	"github.com/dmitrijs2005/gophblog/internal/server"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "token":
		runToken(cfg, os.Args[2:])
	case "publish":
		runPublish(ctx, cfg, os.Args[2:])
	default:
		buildinfo.PrintBuildData(os.Stdout)

		app, err := server.NewApp(ctx, cfg)
		if err != nil {
			log.Printf("%v", err)
			return
		}

		app.Run(ctx)
	}
}

func subcommandFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func runToken(cfg *config.Config, args []string) {
	fs := subcommandFlags("token")
	subject := fs.String("sub", "reader", "token subject")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-sub"}))

	tok, exp, err := server.IssueToken(cfg, *subject)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println(tok)
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format("2006-01-02 15:04:05"))
}

func runPublish(ctx context.Context, cfg *config.Config, args []string) {
	fs := subcommandFlags("publish")
	var req services.PublishRequest
	fs.StringVar(&req.Text, "text", "", "post text")
	fs.StringVar(&req.ImageURL, "image", "", "image link")
	fs.StringVar(&req.FileURL, "file-url", "", "download link")
	fs.BoolVar(&req.WithAttachment, "attach", false, "reserve an upload link for an attachment")
	upload := fs.String("upload", "", "local file to upload as the attachment")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-text", "-image", "-file-url", "-attach", "-upload"}))

	if *upload != "" {
		req.WithAttachment = true
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	res, err := app.Publish(ctx, req)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("published post %d\n", res.ID)
	if *upload != "" {
		if err := server.UploadAttachment(ctx, res.UploadURL, *upload); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("uploaded %s\n", *upload)
		return
	}
	if res.UploadURL != "" {
		fmt.Printf("upload the attachment with: curl -X PUT --upload-file <file> '%s'\n", res.UploadURL)
	}
}
