// Package report renders analysis output for offline review: PNG plots of
// density maps and velocity traces via gonum/plot, and an HTML page of
// interactive charts via go-echarts.
//
// Nothing here feeds back into the pipeline; every function takes the
// data it draws as explicit arguments.
package report
