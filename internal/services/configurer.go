package services

import "mapcluster/internal/domain/entities"

// ClusterConfigurer customizes how clusters are labelled. It runs on the
// delivery goroutine for every added and kept cluster of a pass, before the
// presenter is told about them. reused is true when the cluster kept the ID
// of one already on screen.
//
// Only Title and Subtitle are taken back from cluster; the engine owns the
// other fields.
type ClusterConfigurer interface {
	ConfigureCluster(cluster *entities.ClusterAnnotation, reused bool)
}

// ClusterConfigurerFunc adapts a plain function to ClusterConfigurer.
type ClusterConfigurerFunc func(cluster *entities.ClusterAnnotation, reused bool)

func (f ClusterConfigurerFunc) ConfigureCluster(cluster *entities.ClusterAnnotation, reused bool) {
	f(cluster, reused)
}

func configureCluster(cc ClusterConfigurer, cl *entities.ClusterAnnotation, reused bool) {
	if cc == nil {
		return
	}
	view := cl.Copy()
	cc.ConfigureCluster(&view, reused)
	cl.Title, cl.Subtitle = view.Title, view.Subtitle
}
