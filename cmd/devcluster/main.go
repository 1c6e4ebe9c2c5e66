// devcluster launches a local ring of node containers on a private
// Docker network for exercising join/stabilization by hand. It
// replaces shelling out to the docker CLI with the Docker SDK client.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
)

const (
	netName    = "chordstab-devcluster"
	namePrefix = "chordstab-devnode"
	basePort   = 4000
)

func main() {
	image := flag.String("image", "chordstab-node:latest", "image to run for each node")
	count := flag.Int("n", 3, "number of nodes in the cluster")
	idBits := flag.Int("id-bits", 16, "dht.idBits to pass to every node")
	teardown := flag.Bool("down", false, "tear down a previously started cluster instead of starting one")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		log.Fatalf("failed to create docker client: %v", err)
	}
	defer cli.Close()

	if *teardown {
		if err := tearDown(ctx, cli, *count); err != nil {
			log.Fatalf("teardown failed: %v", err)
		}
		fmt.Println("cluster torn down")
		return
	}

	if err := startCluster(ctx, cli, *image, *count, *idBits); err != nil {
		log.Fatalf("cluster startup failed: %v", err)
	}
}

func startCluster(ctx context.Context, cli *client.Client, img string, count, idBits int) error {
	if err := ensureNetwork(ctx, cli); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if err := ensureImage(ctx, cli, img); err != nil {
		return fmt.Errorf("image: %w", err)
	}

	seed := containerName(0)
	for i := 0; i < count; i++ {
		name := containerName(i)
		env := []string{
			fmt.Sprintf("NODE_HOST=%s", name),
			fmt.Sprintf("NODE_PORT=%d", basePort),
			"DHT_MODE=public",
			fmt.Sprintf("DHT_IDBITS=%d", idBits),
		}
		if i == 0 {
			env = append(env, "BOOTSTRAP_MODE=init")
		} else {
			env = append(env, "BOOTSTRAP_MODE=static",
				fmt.Sprintf("BOOTSTRAP_PEERS=%s:%d", seed, basePort))
		}

		resp, err := cli.ContainerCreate(ctx,
			&container.Config{
				Image: img,
				Env:   env,
			},
			&container.HostConfig{
				NetworkMode: container.NetworkMode(netName),
			},
			&network.NetworkingConfig{},
			nil,
			name,
		)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if err := cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
			return fmt.Errorf("start %s: %w", name, err)
		}
		fmt.Printf("started %s\n", name)

		if i == 0 {
			// give the seed node a moment to reach single-node steady state
			// before the rest of the ring tries to join through it.
			time.Sleep(2 * time.Second)
		}
	}
	return nil
}

func tearDown(ctx context.Context, cli *client.Client, count int) error {
	for i := 0; i < count; i++ {
		name := containerName(i)
		timeout := 5
		_ = cli.ContainerStop(ctx, name, container.StopOptions{Timeout: &timeout})
		if err := cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true}); err != nil {
			fmt.Fprintf(os.Stderr, "remove %s: %v\n", name, err)
		}
	}
	return cli.NetworkRemove(ctx, netName)
}

func ensureNetwork(ctx context.Context, cli *client.Client) error {
	networks, err := cli.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return err
	}
	for _, n := range networks {
		if n.Name == netName {
			return nil
		}
	}
	_, err = cli.NetworkCreate(ctx, netName, network.CreateOptions{Driver: "bridge"})
	return err
}

func ensureImage(ctx context.Context, cli *client.Client, img string) error {
	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return err
	}
	for _, im := range images {
		for _, tag := range im.RepoTags {
			if tag == img {
				return nil
			}
		}
	}
	reader, err := cli.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	_, err = io.Copy(io.Discard, reader)
	return err
}

func containerName(i int) string {
	return namePrefix + "-" + strconv.Itoa(i)
}
